package service

import (
	"context"
	"testing"
	"time"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users, r.scans, noCache)
	ctx := context.Background()
	user := r.seedUser(t, "Dot")

	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{})
	assertStatus(t, 400, err)

	blank := " "
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &blank})
	assertStatus(t, 400, err)

	avatar := "https://cdn.example.com/dot.png"
	done := true
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Avatar:              &avatar,
		Goals:               []string{"sleep"},
		OnboardingCompleted: &done,
	})
	require.NoError(t, err)
	assert.Equal(t, avatar, updated.Avatar)
	assert.Equal(t, []string{"sleep"}, updated.Goals)
	assert.True(t, updated.OnboardingCompleted)
	assert.Equal(t, "Dot", updated.Name)

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileInput{Avatar: &avatar})
	assertStatus(t, 404, err)
}

func TestUserService_Stats(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users, r.scans, noCache)
	ctx := context.Background()
	user := r.seedUser(t, "Eli")

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -2)
	for _, at := range []time.Time{yesterday, now, now} {
		require.NoError(t, r.scans.Create(ctx, &models.ScanRecord{
			UserID:    user.ID,
			ScanType:  models.ScanFood,
			Status:    models.ScanStatusApproved,
			Approved:  true,
			XPEarned:  5,
			CreatedAt: at,
		}))
	}
	require.NoError(t, r.users.UpdateFields(ctx, user.ID, map[string]any{"xp": 40}))

	stats, err := svc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalScans)
	assert.EqualValues(t, 2, stats.TodayScans)
	assert.Equal(t, 60, stats.XPToNextLevel)
	assert.Equal(t, models.TierFree, stats.SubscriptionTier)

	_, err = svc.Stats(ctx, "missing")
	assertStatus(t, 404, err)
}

func TestUserService_SearchAndSummary(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users, r.scans, noCache)
	ctx := context.Background()
	r.seedUser(t, "Fern")

	found, err := svc.Search(ctx, "ern", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := svc.Search(ctx, "   ", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	summary, err := svc.Summary(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, models.UnknownUser, summary)
}
