package service

import (
	"context"
	"strings"

	"levelup/internal/models"
	"levelup/internal/repository"
	"levelup/internal/validation"
)

type ReminderService struct {
	reminders repository.ReminderRepository
	users     repository.UserRepository
}

type CreateReminderInput struct {
	UserID       string   `json:"user_id" validate:"required"`
	Title        string   `json:"title" validate:"required,notblank,max=120"`
	Description  string   `json:"description" validate:"max=500"`
	ReminderType string   `json:"reminder_type" validate:"omitempty,max=32"`
	Time         string   `json:"time" validate:"required,clock"`
	Days         []string `json:"days" validate:"max=7,dive,notblank"`
	Enabled      *bool    `json:"enabled"`
}

// UpdateReminderInput carries optional changes. Nil fields are left alone.
type UpdateReminderInput struct {
	Title        *string  `json:"title" validate:"omitempty,notblank,max=120"`
	Description  *string  `json:"description" validate:"omitempty,max=500"`
	ReminderType *string  `json:"reminder_type" validate:"omitempty,max=32"`
	Time         *string  `json:"time" validate:"omitempty,clock"`
	Days         []string `json:"days" validate:"omitempty,max=7,dive,notblank"`
	Enabled      *bool    `json:"enabled"`
}

func NewReminderService(reminders repository.ReminderRepository, users repository.UserRepository) *ReminderService {
	return &ReminderService{reminders: reminders, users: users}
}

func (s *ReminderService) Create(ctx context.Context, in CreateReminderInput) (*models.Reminder, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	reminder := &models.Reminder{
		UserID:       in.UserID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		ReminderType: in.ReminderType,
		Time:         in.Time,
		Days:         normalizeDays(in.Days),
		Enabled:      enabled,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) List(ctx context.Context, userID string) ([]models.Reminder, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	return reminders, nil
}

func (s *ReminderService) Get(ctx context.Context, id string) (*models.Reminder, error) {
	return s.reminders.GetByID(ctx, id)
}

// Update applies in to the reminder. actorID, when set, must own it.
func (s *ReminderService) Update(ctx context.Context, id, actorID string, in UpdateReminderInput) (*models.Reminder, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if in.Time != nil && !validation.IsClock(*in.Time) {
		return nil, models.NewValidationError("time must be a time in HH:MM format")
	}

	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != "" && actorID != reminder.UserID {
		return nil, models.NewForbiddenError("Cannot modify another user's reminder")
	}

	if in.Title != nil {
		reminder.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		reminder.Description = *in.Description
	}
	if in.ReminderType != nil {
		reminder.ReminderType = *in.ReminderType
	}
	if in.Time != nil {
		reminder.Time = *in.Time
	}
	if in.Days != nil {
		reminder.Days = normalizeDays(in.Days)
	}
	if in.Enabled != nil {
		reminder.Enabled = *in.Enabled
	}

	if err := s.reminders.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Delete(ctx context.Context, id, actorID string) (*models.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != "" && actorID != reminder.UserID {
		return nil, models.NewForbiddenError("Cannot delete another user's reminder")
	}
	if err := s.reminders.Delete(ctx, id); err != nil {
		return nil, err
	}
	return reminder, nil
}

// normalizeDays trims and de-duplicates day names case-insensitively, keeping first-seen order.
func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if d == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out
}
