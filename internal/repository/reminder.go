package repository

import (
	"context"

	"levelup/internal/models"

	"gorm.io/gorm"
)

// ReminderRepository defines persistence operations for reminders.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	Save(ctx context.Context, reminder *models.Reminder) error
	Delete(ctx context.Context, id string) error
}

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository returns a new ReminderRepository implementation.
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reminderRepository) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reminder).Error; err != nil {
		return nil, notFoundOr(err, "Reminder", id)
	}
	return &reminder, nil
}

func (r *reminderRepository) ListByUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	var list []models.Reminder
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return list, nil
}

func (r *reminderRepository) Save(ctx context.Context, reminder *models.Reminder) error {
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reminder{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reminder", id)
	}
	return nil
}
