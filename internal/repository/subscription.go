package repository

import (
	"context"
	"errors"

	"levelup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines persistence operations for subscriptions.
type SubscriptionRepository interface {
	// Get returns (nil, nil) when the user has no subscription record.
	Get(ctx context.Context, userID string) (*models.Subscription, error)
	// Activate upserts the record and mirrors the tier onto the user in one transaction.
	Activate(ctx context.Context, sub *models.Subscription) error
	Cancel(ctx context.Context, userID string) (*models.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a new SubscriptionRepository implementation.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plan_tier", "status", "current_period_start", "current_period_end",
				"cancel_at_period_end", "updated_at",
			}),
		}).Create(sub)
		if upsert.Error != nil {
			return models.NewInternalError(upsert.Error)
		}

		res := tx.Model(&models.User{}).Where("id = ?", sub.UserID).Updates(map[string]any{
			"subscription_tier":   sub.PlanTier,
			"subscription_active": true,
		})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", sub.UserID)
		}
		return nil
	})
}

// Cancel keeps the tier until the period ends; only the flags change.
func (r *subscriptionRepository) Cancel(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&sub).Error; err != nil {
			return notFoundOr(err, "Subscription", userID)
		}
		sub.Status = models.SubscriptionCancelled
		sub.CancelAtPeriodEnd = true
		if err := tx.Save(&sub).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
