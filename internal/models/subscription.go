package models

import "time"

// Subscription statuses.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionNone      = "none"
)

// Subscription is the single current plan record for a user.
type Subscription struct {
	UserID             string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	PlanTier           string    `gorm:"type:varchar(32);not null" json:"plan_tier"`
	Status             string    `gorm:"type:varchar(16);not null" json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false" json:"cancel_at_period_end"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SubscriptionStatus is the client view of a user's plan.
type SubscriptionStatus struct {
	HasSubscription   bool       `json:"hasSubscription"`
	PlanTier          string     `json:"plan_tier"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

// Plan is a purchasable subscription tier.
type Plan struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Price    float64  `yaml:"price" json:"price"`
	Currency string   `yaml:"currency" json:"currency"`
	Interval string   `yaml:"interval" json:"interval"`
	Features []string `yaml:"features" json:"features"`
}

// CheckoutSession is the simulated checkout handle.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	PlanID    string `json:"plan_id"`
	Simulated bool   `json:"simulated"`
}
