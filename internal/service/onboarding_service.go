package service

import (
	"context"

	"levelup/internal/cache"
	"levelup/internal/models"
	"levelup/internal/repository"
	"levelup/internal/validation"
)

// OnboardingXP is awarded the first time a user completes onboarding.
const OnboardingXP = 20

type OnboardingService struct {
	users       repository.UserRepository
	progression *ProgressionService
	cache       *cache.Store
}

type OnboardingInput struct {
	UserID           string   `json:"user_id" validate:"required"`
	Age              int      `json:"age" validate:"omitempty,gte=13,lte=120"`
	Gender           string   `json:"gender" validate:"max=32"`
	Goals            []string `json:"goals" validate:"max=10,dive,notblank"`
	BodyType         string   `json:"body_type" validate:"max=32"`
	ActivityLevel    string   `json:"activity_level" validate:"max=32"`
	HealthConditions []string `json:"health_conditions" validate:"max=20,dive,notblank"`
}

// OnboardingResult reports the XP earned and the resulting progress.
type OnboardingResult struct {
	Message  string          `json:"message"`
	XPEarned int             `json:"xp_earned"`
	Progress models.Progress `json:"progress"`
}

func NewOnboardingService(users repository.UserRepository, progression *ProgressionService, store *cache.Store) *OnboardingService {
	return &OnboardingService{users: users, progression: progression, cache: store}
}

func (s *OnboardingService) Complete(ctx context.Context, in OnboardingInput) (*OnboardingResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	fields := map[string]any{
		"age":               in.Age,
		"gender":            in.Gender,
		"body_type":         in.BodyType,
		"activity_level":    in.ActivityLevel,
		"goals":             nonNil(in.Goals),
		"health_conditions": nonNil(in.HealthConditions),
	}
	first, err := s.users.CompleteOnboarding(ctx, in.UserID, fields)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.UserSummaryKey(in.UserID))

	result := &OnboardingResult{Message: "Onboarding completed successfully"}
	if !first {
		user, err := s.users.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		result.Progress = models.Progress{XP: user.XP, Level: user.Level}
		return result, nil
	}

	progress, err := s.progression.AwardXP(ctx, in.UserID, OnboardingXP, XPSourceOnboarding)
	if err != nil {
		return nil, err
	}
	result.XPEarned = OnboardingXP
	result.Progress = *progress
	return result, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
