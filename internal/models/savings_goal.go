package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal represents a per-user savings target.
type SavingsGoal struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	Name          string          `gorm:"size:64;not null"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TargetDate    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
