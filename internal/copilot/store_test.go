package copilot

import (
	"context"
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&models.Transaction{}, &models.ChatMessage{}))
	return db
}

func TestGormTransactionSource_ListByOwner(t *testing.T) {
	db := openTestDB(t)
	src := &GormTransactionSource{DB: db}

	rows := []models.Transaction{
		{UserID: 1, Type: models.TypeExpense, Amount: dec("30"), Category: "Food", OccurredAt: day(2)},
		{UserID: 1, Type: models.TypeIncome, Amount: dec("1000"), Category: "Salary", OccurredAt: day(5)},
		{UserID: 2, Type: models.TypeExpense, Amount: dec("99"), Category: "Other", OccurredAt: day(3)},
	}
	require.NoError(t, db.Create(&rows).Error)

	out, err := src.ListByOwner(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, out, 2, "rows are scoped to the owner")
	assert.Equal(t, "Salary", out[0].Category, "most recent first")
	assert.Equal(t, "Food", out[1].Category)
	assert.True(t, out[0].Amount.Equal(dec("1000")))
}

func TestGormMessageStore_AppendAndRecent(t *testing.T) {
	db := openTestDB(t)
	store := &GormMessageStore{DB: db}
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, 1, "user", "first"))
	require.NoError(t, store.Append(ctx, 1, "assistant", "second"))
	require.NoError(t, store.Append(ctx, 1, "user", "third"))
	require.NoError(t, store.Append(ctx, 2, "user", "someone else"))

	out, err := store.RecentByOwner(ctx, 1, 2)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "third", out[0].Content, "newest first")
	assert.Equal(t, "second", out[1].Content)
	assert.WithinDuration(t, time.Now(), out[0].CreatedAt, time.Minute)
}

func TestGormMessageStore_AppendIsInsertOnly(t *testing.T) {
	db := openTestDB(t)
	store := &GormMessageStore{DB: db}
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, 1, "user", "hello"))
	require.NoError(t, store.Append(ctx, 1, "user", "hello"))

	var count int64
	require.NoError(t, db.Model(&models.ChatMessage{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "identical turns create distinct rows")
}
