package models

import (
	"time"

	"gorm.io/gorm"
)

// Media is an uploaded blob served back verbatim.
type Media struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Filename    string    `json:"filename"`
	ContentType string    `gorm:"type:varchar(128);not null" json:"content_type"`
	Size        int       `gorm:"not null" json:"size"`
	Data        []byte    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *Media) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
