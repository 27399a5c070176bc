package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GaneshVarma1/Goodmoney/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}))
	return db
}

func transactionRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTransactionHandler(db)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: userID, Username: "alice"})
	})
	r.POST("/transactions", h.CreateTransaction)
	r.GET("/transactions", h.ListTransactions)
	r.PUT("/transactions/:id", h.UpdateTransaction)
	r.DELETE("/transactions/:id", h.DeleteTransaction)
	r.GET("/stats/monthly", h.GetMonthlyStats)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedTransaction(t *testing.T, db *gorm.DB, userID uint, txType, category, amount string, occurredAt time.Time) models.Transaction {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	tx := models.Transaction{
		UserID:     userID,
		Type:       txType,
		Category:   category,
		Amount:     amt,
		OccurredAt: occurredAt,
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func TestCreateTransaction(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	w := doJSON(t, r, http.MethodPost, "/transactions", map[string]any{
		"type":        "expense",
		"category":    "Food",
		"amount":      "42.50",
		"description": "groceries",
		"occurred_at": time.Now().Format("2006-01-02"),
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	tx := body["data"].(map[string]any)["transaction"].(map[string]any)
	assert.Equal(t, "expense", tx["type"])
	assert.Equal(t, "42.50", tx["amount"])

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateTransaction_Validation(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad type", map[string]any{"type": "transfer", "category": "Food", "amount": "10"}},
		{"negative amount", map[string]any{"type": "expense", "category": "Food", "amount": "-5"}},
		{"zero amount", map[string]any{"type": "expense", "category": "Food", "amount": "0"}},
		{"amount not a number", map[string]any{"type": "expense", "category": "Food", "amount": "ten"}},
		{"future date", map[string]any{"type": "expense", "category": "Food", "amount": "10",
			"occurred_at": time.Now().AddDate(0, 0, 2).Format("2006-01-02")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/transactions", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListTransactions_FiltersAndSummary(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	now := time.Now()
	seedTransaction(t, db, 1, models.TypeIncome, "Salary", "1000", now.AddDate(0, 0, -1))
	seedTransaction(t, db, 1, models.TypeExpense, "Food", "200", now)
	seedTransaction(t, db, 1, models.TypeExpense, "Transport", "50", now)
	seedTransaction(t, db, 2, models.TypeExpense, "Food", "999", now) // other user

	w := doJSON(t, r, http.MethodGet, "/transactions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total"], "rows are scoped to the owner")

	summary := data["summary"].(map[string]any)
	assert.Equal(t, "1000.00", summary["total_income"])
	assert.Equal(t, "250.00", summary["total_expense"])
	assert.Equal(t, "750.00", summary["balance"])

	// category filter narrows both the list and the summary
	w = doJSON(t, r, http.MethodGet, "/transactions?categories=Food", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeEnvelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])
	summary = data["summary"].(map[string]any)
	assert.Equal(t, "200.00", summary["total_expense"])

	// type filter
	w = doJSON(t, r, http.MethodGet, "/transactions?type=income", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeEnvelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total"])
}

func TestListTransactions_SortAndPagination(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	now := time.Now()
	for i := 1; i <= 5; i++ {
		seedTransaction(t, db, 1, models.TypeExpense, "Misc",
			fmt.Sprintf("%d", i*10), now.AddDate(0, 0, -i))
	}

	w := doJSON(t, r, http.MethodGet, "/transactions?sort=amount_desc&page=1&page_size=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 5, data["total"])
	items := data["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "50.00", items[0].(map[string]any)["amount"])
	assert.Equal(t, "40.00", items[1].(map[string]any)["amount"])
}

func TestUpdateTransaction_OwnerScoped(t *testing.T) {
	db := openTestDB(t)
	other := seedTransaction(t, db, 2, models.TypeExpense, "Food", "10", time.Now())
	r := transactionRouter(db, 1)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/transactions/%d", other.ID), map[string]any{
		"type": "expense", "category": "Food", "amount": "99",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTransaction(t *testing.T) {
	db := openTestDB(t)
	mine := seedTransaction(t, db, 1, models.TypeExpense, "Food", "10", time.Now())
	r := transactionRouter(db, 1)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/transactions/%d", mine.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestGetMonthlyStats(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	jan5 := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	jan20 := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	seedTransaction(t, db, 1, models.TypeIncome, "Salary", "1000", jan5)
	seedTransaction(t, db, 1, models.TypeExpense, "Food", "200", jan5)
	seedTransaction(t, db, 1, models.TypeExpense, "Food", "100", jan20)
	seedTransaction(t, db, 1, models.TypeExpense, "Rent", "900", feb1) // outside the month

	w := doJSON(t, r, http.MethodGet, "/stats/monthly?month=2024-01", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "2024-01", data["month"])
	assert.Equal(t, "1000.00", data["total_income"])
	assert.Equal(t, "300.00", data["total_expense"])
	assert.Equal(t, "700.00", data["total_balance"])

	daily := data["daily"].([]any)
	require.Len(t, daily, 2)
	first := daily[0].(map[string]any)
	assert.Equal(t, "2024-01-05", first["date"])
	assert.Equal(t, "800.00", first["balance"])

	byCat := data["by_category"].([]any)
	require.Len(t, byCat, 2)
}

func TestGetMonthlyStats_BadMonth(t *testing.T) {
	db := openTestDB(t)
	r := transactionRouter(db, 1)

	w := doJSON(t, r, http.MethodGet, "/stats/monthly?month=January", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
