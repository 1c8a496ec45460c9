package repository

import (
	"context"
	"testing"
	"time"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "subscriber")

	sub, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, sub)

	now := time.Now().UTC()
	require.NoError(t, repo.Activate(ctx, &models.Subscription{
		UserID:             user.ID,
		PlanTier:           models.TierBasic,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, 30),
	}))

	// Re-activating replaces the single record.
	require.NoError(t, repo.Activate(ctx, &models.Subscription{
		UserID:             user.ID,
		PlanTier:           models.TierPro,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, 30),
	}))

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	u, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, u.SubscriptionTier)
	assert.True(t, u.SubscriptionActive)

	cancelled, err := repo.Cancel(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionCancelled, cancelled.Status)
	assert.True(t, cancelled.CancelAtPeriodEnd)
	assert.Equal(t, models.TierPro, cancelled.PlanTier)

	_, err = repo.Cancel(ctx, "missing")
	assert.Equal(t, 404, models.StatusFor(err))

	err = repo.Activate(ctx, &models.Subscription{UserID: "ghost", PlanTier: models.TierPro, Status: models.SubscriptionActive})
	assert.Equal(t, 404, models.StatusFor(err))
	got, err := repo.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}
