package database

import (
	"fmt"

	"github.com/GaneshVarma1/Goodmoney/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.BudgetCategory{},
		&models.SavingsGoal{},
		&models.ChatMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
