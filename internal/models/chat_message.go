package models

import "time"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the copilot conversation.
// The log is append-only per user; retrieval is created_at DESC.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Role      string `gorm:"size:16;not null"` // user / assistant
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}
