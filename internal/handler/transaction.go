package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/models"
	"github.com/GaneshVarma1/Goodmoney/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction CRUD and statistics.
type TransactionHandler struct {
	DB *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{DB: db}
}

// ---------- request/response shapes ----------

type transactionReq struct {
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Category    string `json:"category" binding:"max=64"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
	OccurredAt  string `json:"occurred_at"`
}

type transactionResp struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	return transactionResp{
		ID:          t.ID,
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		CreatedAt:   t.CreatedAt,
	}
}

// parseOccurredAt accepts a few common date layouts; zero input means today.
// The date may not be in the future.
func parseOccurredAt(s string) (time.Time, bool) {
	occurredAt := time.Now()
	if s != "" {
		layouts := []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02",
		}
		parsed := false
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				occurredAt = t
				parsed = true
				break
			}
		}
		if !parsed {
			return time.Time{}, false
		}
	}
	if occurredAt.Format("2006-01-02") > time.Now().Format("2006-01-02") {
		return time.Time{}, false
	}
	return occurredAt, true
}

// validate parses and checks the shared request fields.
func (r *transactionReq) validate() (decimal.Decimal, time.Time, string) {
	r.Category = strings.TrimSpace(r.Category)
	if err := util.ValidateCategory(r.Category); err != nil {
		return decimal.Zero, time.Time{}, "please choose a category"
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, time.Time{}, "please enter a valid amount"
	}
	if err := util.ValidateAmount(amount); err != nil {
		return decimal.Zero, time.Time{}, "please enter a valid amount"
	}

	occurredAt, ok := parseOccurredAt(r.OccurredAt)
	if !ok {
		return decimal.Zero, time.Time{}, "transaction date may not be in the future"
	}

	return amount, occurredAt, ""
}

// ---------- create ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	amount, occurredAt, msg := req.validate()
	if msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}

	tx := models.Transaction{
		UserID:      user.ID,
		Type:        req.Type,
		Category:    req.Category,
		Amount:      amount,
		Description: strings.TrimSpace(req.Description),
		OccurredAt:  occurredAt,
	}

	if err := h.DB.Create(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&tx),
	})
}

// ---------- update ----------

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	amount, occurredAt, msg := req.validate()
	if msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return
	}

	// only the owner's record
	var tx models.Transaction
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	tx.Type = req.Type
	tx.Category = req.Category
	tx.Amount = amount
	tx.Description = strings.TrimSpace(req.Description)
	tx.OccurredAt = occurredAt

	if err := h.DB.Save(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&tx),
	})
}

// ---------- delete ----------

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Transaction{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete")
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}

// ---------- list ----------

// ListTransactions supports time range, type, multi-category filters,
// sorting and pagination, and returns a summary over the same filters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	startStr := c.Query("start")
	endStr := c.Query("end")

	var (
		startTime time.Time
		endTime   time.Time
		hasStart  bool
		hasEnd    bool
		err       error
	)

	if startStr != "" {
		startTime, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		hasStart = true
	}
	if endStr != "" {
		endTime, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		// end date is inclusive: < end+1 day
		endTime = endTime.Add(24 * time.Hour)
		hasEnd = true
	}

	// default to the last 30 days when no range is given
	if !hasStart && !hasEnd {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		startTime = today.AddDate(0, 0, -29)
		endTime = today.AddDate(0, 0, 1)
		hasStart, hasEnd = true, true
	}

	txType := c.Query("type")
	if txType != models.TypeIncome && txType != models.TypeExpense {
		txType = ""
	}

	// multi-category filter: ?categories=Food,Transport
	var catList []string
	if catStr := c.Query("categories"); catStr != "" {
		for _, p := range strings.Split(catStr, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				catList = append(catList, p)
			}
		}
	}

	sortKey := c.DefaultQuery("sort", "date_desc")
	orderBy := "occurred_at DESC, id DESC"
	switch sortKey {
	case "date_asc":
		orderBy = "occurred_at ASC, id ASC"
	case "amount_desc":
		orderBy = "amount DESC, id DESC"
	case "amount_asc":
		orderBy = "amount ASC, id ASC"
	}

	// base query shared by the list and the summary
	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)
	if hasStart {
		base = base.Where("occurred_at >= ?", startTime)
	}
	if hasEnd {
		base = base.Where("occurred_at < ?", endTime)
	}
	if txType != "" {
		base = base.Where("type = ?", txType)
	}
	if len(catList) > 0 {
		base = base.Where("category IN ?", catList)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	var rows []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(size).
		Offset(offset).
		Find(&rows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]transactionResp, 0, len(rows))
	for i := range rows {
		items = append(items, toTransactionResp(&rows[i]))
	}

	// summary under the same filters
	var all []models.Transaction
	if err := base.Session(&gorm.Session{}).Find(&all).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "summary failed")
		return
	}

	type categorySummary struct {
		Category string `json:"category"`
		Income   string `json:"income"`
		Expense  string `json:"expense"`
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	catIncome := make(map[string]decimal.Decimal)
	catExpense := make(map[string]decimal.Decimal)

	for i := range all {
		t := &all[i]
		if t.Type == models.TypeIncome {
			totalIncome = totalIncome.Add(t.Amount)
			catIncome[t.Category] = catIncome[t.Category].Add(t.Amount)
		} else {
			totalExpense = totalExpense.Add(t.Amount)
			catExpense[t.Category] = catExpense[t.Category].Add(t.Amount)
		}
	}

	seen := make(map[string]bool)
	byCategory := make([]categorySummary, 0, len(catIncome)+len(catExpense))
	for i := range all {
		cat := all[i].Category
		if seen[cat] {
			continue
		}
		seen[cat] = true
		byCategory = append(byCategory, categorySummary{
			Category: cat,
			Income:   catIncome[cat].StringFixed(2),
			Expense:  catExpense[cat].StringFixed(2),
		})
	}

	summary := gin.H{
		"total_income":  totalIncome.StringFixed(2),
		"total_expense": totalExpense.StringFixed(2),
		"balance":       totalIncome.Sub(totalExpense).StringFixed(2),
		"by_category":   byCategory,
	}

	util.Success(c, util.Response{
		"items":   items,
		"total":   total,
		"page":    page,
		"size":    size,
		"summary": summary,
	})
}

// ---------- monthly stats ----------

// GetMonthlyStats returns per-day and per-category totals for one month.
func (h *TransactionHandler) GetMonthlyStats(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}

	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}

	startOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	var txs []models.Transaction
	if err := h.DB.Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?",
		user.ID, startOfMonth, endOfMonth).
		Order("occurred_at ASC").
		Find(&txs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	type dailyStat struct {
		Date    string `json:"date"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Balance string `json:"balance"`
	}
	type categoryStat struct {
		Category string `json:"category"`
		Income   string `json:"income"`
		Expense  string `json:"expense"`
		Balance  string `json:"balance"`
	}

	type sums struct{ income, expense decimal.Decimal }

	dailyMap := make(map[string]*sums)
	var dailyOrder []string
	catMap := make(map[string]*sums)
	var catOrder []string
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	for i := range txs {
		t := &txs[i]
		dateKey := t.OccurredAt.Format("2006-01-02")

		ds, ok := dailyMap[dateKey]
		if !ok {
			ds = &sums{}
			dailyMap[dateKey] = ds
			dailyOrder = append(dailyOrder, dateKey)
		}
		cs, ok := catMap[t.Category]
		if !ok {
			cs = &sums{}
			catMap[t.Category] = cs
			catOrder = append(catOrder, t.Category)
		}

		if t.Type == models.TypeIncome {
			ds.income = ds.income.Add(t.Amount)
			cs.income = cs.income.Add(t.Amount)
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			ds.expense = ds.expense.Add(t.Amount)
			cs.expense = cs.expense.Add(t.Amount)
			totalExpense = totalExpense.Add(t.Amount)
		}
	}

	daily := make([]dailyStat, 0, len(dailyOrder))
	for _, date := range dailyOrder {
		s := dailyMap[date]
		daily = append(daily, dailyStat{
			Date:    date,
			Income:  s.income.StringFixed(2),
			Expense: s.expense.StringFixed(2),
			Balance: s.income.Sub(s.expense).StringFixed(2),
		})
	}

	byCategory := make([]categoryStat, 0, len(catOrder))
	for _, cat := range catOrder {
		s := catMap[cat]
		byCategory = append(byCategory, categoryStat{
			Category: cat,
			Income:   s.income.StringFixed(2),
			Expense:  s.expense.StringFixed(2),
			Balance:  s.income.Sub(s.expense).StringFixed(2),
		})
	}

	util.Success(c, util.Response{
		"month":         monthStr,
		"daily":         daily,
		"by_category":   byCategory,
		"total_income":  totalIncome.StringFixed(2),
		"total_expense": totalExpense.StringFixed(2),
		"total_balance": totalIncome.Sub(totalExpense).StringFixed(2),
	})
}
