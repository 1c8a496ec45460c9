package repository

import (
	"context"

	"levelup/internal/models"
	"levelup/internal/observability"

	"gorm.io/gorm"
)

// MediaRepository defines persistence operations for uploaded media.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository returns a new MediaRepository implementation.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	defer observability.TrackQuery("create", "media")()

	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error; err != nil {
		return nil, notFoundOr(err, "Media", id)
	}
	return &media, nil
}
