package models

import (
	"time"

	"gorm.io/gorm"
)

// Reminder is a recurring nudge configured by a user.
type Reminder struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	ReminderType string    `gorm:"type:varchar(32);not null;default:custom" json:"reminder_type"`
	Time         string    `gorm:"type:varchar(5);not null" json:"time"`
	Days         []string  `gorm:"type:text;serializer:json" json:"days"`
	Enabled      bool      `gorm:"not null" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *Reminder) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	if r.ReminderType == "" {
		r.ReminderType = "custom"
	}
	return nil
}
