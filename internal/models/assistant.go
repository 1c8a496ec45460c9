package models

import (
	"time"

	"gorm.io/gorm"
)

// Assistant chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AssistantMessage is one turn of a coach conversation.
type AssistantMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_assistant_session" json:"user_id"`
	SessionID string    `gorm:"type:varchar(64);not null;index:idx_assistant_session" json:"session_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	// Seq orders turns that share a created_at.
	Seq int64 `gorm:"not null;default:0" json:"-"`
}

func (m *AssistantMessage) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
