package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCategory represents a per-user spending category with a monthly limit.
type BudgetCategory struct {
	ID           uint            `gorm:"primaryKey"`
	UserID       uint            `gorm:"index;not null"`
	Name         string          `gorm:"size:64;not null"`
	MonthlyLimit decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
