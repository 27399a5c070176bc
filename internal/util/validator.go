package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount checks that an amount is positive and below the cap.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateCategory checks that a category label is present and reasonably sized.
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}
