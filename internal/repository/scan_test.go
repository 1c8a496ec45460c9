package repository

import (
	"context"
	"testing"
	"time"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "scanner")

	yesterday := time.Now().Add(-24 * time.Hour)
	scans := []*models.ScanRecord{
		{UserID: user.ID, ScanType: models.ScanBody, XPEarned: 8, Status: models.ScanStatusApproved, Approved: true, CreatedAt: yesterday},
		{UserID: user.ID, ScanType: models.ScanFood, XPEarned: 5, Status: models.ScanStatusApproved, Approved: true},
		{UserID: user.ID, ScanType: models.ScanFood, XPEarned: 0, Status: models.ScanStatusPendingReview,
			Analysis: map[string]any{"calories": 420.0}},
	}
	for _, s := range scans {
		require.NoError(t, repo.Create(ctx, s))
	}

	t.Run("ListByUser filters by type", func(t *testing.T) {
		food, err := repo.ListByUser(ctx, user.ID, models.ScanFood, 0)
		require.NoError(t, err)
		assert.Len(t, food, 2)

		all, err := repo.ListByUser(ctx, user.ID, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, models.ScanBody, all[2].ScanType)
	})

	t.Run("Analysis round trips", func(t *testing.T) {
		food, err := repo.ListByUser(ctx, user.ID, models.ScanFood, 0)
		require.NoError(t, err)
		var pending *models.ScanRecord
		for i := range food {
			if food[i].Status == models.ScanStatusPendingReview {
				pending = &food[i]
			}
		}
		require.NotNil(t, pending)
		assert.Equal(t, 420.0, pending.Analysis["calories"])
		assert.False(t, pending.Approved)
	})

	t.Run("CountSince", func(t *testing.T) {
		n, err := repo.CountSince(ctx, user.ID, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := repo.Stats(ctx, user.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalScans)
		assert.Equal(t, int64(13), stats.TotalXPEarned)
		assert.Equal(t, int64(1), stats.ByType[models.ScanBody])
		assert.Equal(t, int64(2), stats.ByType[models.ScanFood])
		assert.Equal(t, int64(0), stats.ByType[models.ScanFace])
		assert.Len(t, stats.Recent, 2)
	})
}
