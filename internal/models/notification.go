package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a per-user message. Read only ever moves from false to true.
type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_notif_user_created" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Type      string    `gorm:"type:varchar(32);not null;default:info" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index:idx_notif_user_created" json:"created_at"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	ensureID(&n.ID)
	if n.Type == "" {
		n.Type = "info"
	}
	return nil
}
