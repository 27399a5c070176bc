package copilot

import (
	"context"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the slice of a stored transaction the pipeline needs.
type Transaction struct {
	Type        string
	Amount      decimal.Decimal
	Category    string
	Description string
	OccurredAt  time.Time
}

// Message is one prior conversation turn.
type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// TransactionSource reads a user's transactions, most recent date first.
type TransactionSource interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]Transaction, error)
}

// MessageStore reads and appends a user's chat log.
type MessageStore interface {
	// RecentByOwner returns up to limit turns, created_at DESC.
	RecentByOwner(ctx context.Context, ownerID uint, limit int) ([]Message, error)
	Append(ctx context.Context, ownerID uint, role, content string) error
}

// GormTransactionSource is the database-backed TransactionSource.
type GormTransactionSource struct {
	DB *gorm.DB
}

func (s *GormTransactionSource) ListByOwner(ctx context.Context, ownerID uint) ([]Transaction, error) {
	var rows []models.Transaction
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("occurred_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Transaction, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, Transaction{
			Type:        r.Type,
			Amount:      r.Amount,
			Category:    r.Category,
			Description: r.Description,
			OccurredAt:  r.OccurredAt,
		})
	}
	return out, nil
}

// GormMessageStore is the database-backed MessageStore.
type GormMessageStore struct {
	DB *gorm.DB
}

func (s *GormMessageStore) RecentByOwner(ctx context.Context, ownerID uint, limit int) ([]Message, error) {
	var rows []models.ChatMessage
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, Message{Role: r.Role, Content: r.Content, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (s *GormMessageStore) Append(ctx context.Context, ownerID uint, role, content string) error {
	msg := models.ChatMessage{
		UserID:  ownerID,
		Role:    role,
		Content: content,
	}
	return s.DB.WithContext(ctx).Create(&msg).Error
}
