package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction represents a single income or expense record.
// Amounts are stored as fixed-point decimals to avoid float drift.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Type        string          `gorm:"size:16;index;not null"` // income / expense
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Category    string          `gorm:"size:64;not null"`
	Description string          `gorm:"size:255"`
	OccurredAt  time.Time       `gorm:"index;not null"` // calendar date of the transaction
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
