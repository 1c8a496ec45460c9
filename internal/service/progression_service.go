package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"levelup/internal/cache"
	"levelup/internal/models"
	"levelup/internal/observability"
	"levelup/internal/repository"
)

// maxXPAttempts bounds the optimistic retry loop for one award.
const maxXPAttempts = 5

// XP sources.
const (
	XPSourceScan       = "scan"
	XPSourceOnboarding = "onboarding"
	XPSourceManual     = "manual"
)

// ProgressionService owns XP awards and daily streaks.
type ProgressionService struct {
	users repository.UserRepository
	cache *cache.Store
	now   func() time.Time
}

// NewProgressionService returns a new ProgressionService. store holds the
// cached user summaries, which carry the level, so awards evict them.
func NewProgressionService(users repository.UserRepository, store *cache.Store) *ProgressionService {
	return &ProgressionService{users: users, cache: store, now: time.Now}
}

// AwardXP adds amount to the user's xp and carries level-ups.
func (s *ProgressionService) AwardXP(ctx context.Context, userID string, amount int, source string) (*models.Progress, error) {
	if amount < 0 {
		return nil, models.NewValidationError("XP amount cannot be negative")
	}
	if amount > models.MaxXPAward {
		return nil, models.NewValidationError(fmt.Sprintf("XP amount cannot exceed %d", models.MaxXPAward))
	}

	for attempt := 0; attempt < maxXPAttempts; attempt++ {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		next := models.ApplyXP(user.Level, user.XP, amount)
		if amount == 0 {
			return &next, nil
		}

		ok, err := s.users.CompareAndSetProgress(ctx, userID, user.Level, user.XP, next.Level, next.XP)
		if err != nil {
			return nil, err
		}
		if ok {
			s.cache.Invalidate(ctx, cache.UserSummaryKey(userID))
			observability.XPAwarded.WithLabelValues(source).Add(float64(amount))
			if next.LevelUps > 0 {
				observability.LevelUps.Add(float64(next.LevelUps))
			}
			return &next, nil
		}
		observability.XPConflictRetries.Inc()
	}

	return nil, models.NewInternalError(fmt.Errorf("award xp to %s: %w", userID, errTooManyConflicts))
}

var errTooManyConflicts = errors.New("progress kept changing underneath the update")

// RecordActivity advances the user's daily streak for an activity at the
// current time. Calendar days are UTC.
func (s *ProgressionService) RecordActivity(ctx context.Context, user *models.User) (int, error) {
	today := truncateDay(s.now())

	streak := 1
	if user.LastScanDate != nil {
		last := truncateDay(*user.LastScanDate)
		switch {
		case last.Equal(today):
			return user.StreakDays, nil
		case last.Equal(today.AddDate(0, 0, -1)):
			streak = user.StreakDays + 1
		}
	}

	if err := s.users.UpdateStreak(ctx, user.ID, streak, today); err != nil {
		return user.StreakDays, err
	}
	user.StreakDays = streak
	user.LastScanDate = &today
	return streak, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
