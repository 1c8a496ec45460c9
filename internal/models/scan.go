package models

import (
	"time"

	"gorm.io/gorm"
)

// ScanType identifies what a scan analyzes.
type ScanType string

const (
	ScanBody ScanType = "body"
	ScanFace ScanType = "face"
	ScanFood ScanType = "food"
)

// Scan statuses.
const (
	ScanStatusApproved      = "approved"
	ScanStatusPendingReview = "pending_review"
)

// ParseScanType validates a raw scan type.
func ParseScanType(raw string) (ScanType, bool) {
	switch t := ScanType(raw); t {
	case ScanBody, ScanFace, ScanFood:
		return t, true
	default:
		return "", false
	}
}

// ScanRecord is a stored scan and its analysis. Only Approved changes after insert.
type ScanRecord struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ScanType  ScanType       `gorm:"type:varchar(16);not null;index" json:"scan_type"`
	Analysis  map[string]any `gorm:"type:text;serializer:json" json:"analysis,omitempty"`
	XPEarned  int            `gorm:"not null;default:0" json:"xp_earned"`
	Status    string         `gorm:"type:varchar(32);not null" json:"status"`
	Approved  bool           `gorm:"not null" json:"approved"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (s *ScanRecord) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// ScanStats aggregates a user's scan history.
type ScanStats struct {
	TotalScans    int64              `json:"total_scans"`
	ByType        map[ScanType]int64 `json:"by_type"`
	TotalXPEarned int64              `json:"total_xp_earned"`
	Recent        []ScanRecord       `json:"recent"`
}
