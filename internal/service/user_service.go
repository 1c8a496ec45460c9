package service

import (
	"context"
	"strings"
	"time"

	"levelup/internal/cache"
	"levelup/internal/models"
	"levelup/internal/repository"
)

type UserService struct {
	users repository.UserRepository
	scans repository.ScanRepository
	cache *cache.Store
	now   func() time.Time
}

// UpdateProfileInput carries the editable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name                *string
	Avatar              *string
	Bio                 *string
	Goals               []string
	ActivityLevel       *string
	OnboardingCompleted *bool
}

func NewUserService(users repository.UserRepository, scans repository.ScanRepository, store *cache.Store) *UserService {
	return &UserService{users: users, scans: scans, cache: store, now: time.Now}
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.User, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.Goals != nil {
		fields["goals"] = in.Goals
	}
	if in.ActivityLevel != nil {
		fields["activity_level"] = *in.ActivityLevel
	}
	if in.OnboardingCompleted != nil {
		fields["onboarding_completed"] = *in.OnboardingCompleted
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("No data to update")
	}

	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.UserSummaryKey(id))
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.users.Search(ctx, query, limit)
}

func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	return s.users.Leaderboard(ctx, limit)
}

// Stats summarizes progress and scan activity. Today starts at midnight UTC.
func (s *UserService) Stats(ctx context.Context, id string) (*models.UserStats, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.scans.CountSince(ctx, id, time.Time{})
	if err != nil {
		return nil, err
	}
	today, err := s.scans.CountSince(ctx, id, truncateDay(s.now()))
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		Level:              user.Level,
		XP:                 user.XP,
		XPToNextLevel:      models.XPThreshold(user.Level) - user.XP,
		StreakDays:         user.StreakDays,
		TotalScans:         total,
		TodayScans:         today,
		SubscriptionTier:   user.SubscriptionTier,
		SubscriptionActive: user.SubscriptionActive,
	}, nil
}

// Summary returns the display fields for a user through the cache.
func (s *UserService) Summary(ctx context.Context, id string) (models.UserSummary, error) {
	return userSummary(ctx, s.cache, s.users, id)
}

// userSummary resolves id to its display fields, caching hits and misses alike.
// A missing user renders as models.UnknownUser.
func userSummary(ctx context.Context, store *cache.Store, users repository.UserRepository, id string) (models.UserSummary, error) {
	var summary models.UserSummary
	err := store.Aside(ctx, cache.UserSummaryKey(id), &summary, cache.UserSummaryTTL, func() error {
		user, err := users.GetByID(ctx, id)
		if models.StatusFor(err) == 404 {
			summary = models.UnknownUser
			return nil
		}
		if err != nil {
			return err
		}
		summary = user.Summary()
		return nil
	})
	return summary, err
}
