package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription tiers a user can hold.
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPro     = "pro"
	TierPremium = "premium"
)

// User represents an account in the app.
type User struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`

	Level        int        `gorm:"not null;default:1" json:"level"`
	XP           int        `gorm:"not null;default:0" json:"xp"`
	StreakDays   int        `gorm:"not null;default:0" json:"streak_days"`
	LastScanDate *time.Time `json:"last_scan_date,omitempty"`

	OnboardingCompleted bool     `gorm:"not null;default:false" json:"onboarding_completed"`
	Age                 int      `json:"age,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	Goals               []string `gorm:"type:text;serializer:json" json:"goals,omitempty"`
	BodyType            string   `json:"body_type,omitempty"`
	ActivityLevel       string   `json:"activity_level,omitempty"`
	HealthConditions    []string `gorm:"type:text;serializer:json" json:"health_conditions,omitempty"`

	SubscriptionTier   string `gorm:"not null;default:free" json:"subscription_tier"`
	SubscriptionActive bool   `gorm:"not null;default:false" json:"subscription_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an id and the progression defaults.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)
	if u.Level < 1 {
		u.Level = 1
	}
	if u.SubscriptionTier == "" {
		u.SubscriptionTier = TierFree
	}
	return nil
}

// UserSummary is the display subset embedded in posts, comments and messages.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Level  int    `json:"level,omitempty"`
}

// Summary returns the display subset of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Level: u.Level}
}

// UnknownUser is rendered for content whose author no longer resolves.
var UnknownUser = UserSummary{Name: "Unknown User", Level: 1}

// UserStats is the dashboard view of a user's progress.
type UserStats struct {
	Level              int    `json:"level"`
	XP                 int    `json:"xp"`
	XPToNextLevel      int    `json:"xp_to_next_level"`
	StreakDays         int    `json:"streak_days"`
	TotalScans         int64  `json:"total_scans"`
	TodayScans         int64  `json:"today_scans"`
	SubscriptionTier   string `json:"subscription_tier"`
	SubscriptionActive bool   `json:"subscription_active"`
}
