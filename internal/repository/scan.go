package repository

import (
	"context"
	"time"

	"levelup/internal/models"
	"levelup/internal/observability"

	"gorm.io/gorm"
)

// ScanRepository defines persistence operations for scan records.
type ScanRepository interface {
	Create(ctx context.Context, scan *models.ScanRecord) error
	ListByUser(ctx context.Context, userID string, scanType models.ScanType, limit int) ([]models.ScanRecord, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
	Stats(ctx context.Context, userID string, recent int) (*models.ScanStats, error)
}

type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository returns a new ScanRepository implementation.
func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *models.ScanRecord) error {
	defer observability.TrackQuery("create", "scan_records")()

	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByUser returns the newest scans first. An empty scanType lists all types.
func (r *scanRepository) ListByUser(ctx context.Context, userID string, scanType models.ScanType, limit int) ([]models.ScanRecord, error) {
	limit = clampLimit(limit, 50, 100)

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if scanType != "" {
		q = q.Where("scan_type = ?", scanType)
	}

	var scans []models.ScanRecord
	if err := q.Order("created_at DESC").Limit(limit).Find(&scans).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return scans, nil
}

func (r *scanRepository) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ScanRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

type scanTypeCount struct {
	ScanType models.ScanType
	Count    int64
	XP       int64
}

func (r *scanRepository) Stats(ctx context.Context, userID string, recent int) (*models.ScanStats, error) {
	defer observability.TrackQuery("stats", "scan_records")()

	var rows []scanTypeCount
	err := r.db.WithContext(ctx).Model(&models.ScanRecord{}).
		Select("scan_type, COUNT(*) AS count, COALESCE(SUM(xp_earned), 0) AS xp").
		Where("user_id = ?", userID).
		Group("scan_type").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	stats := &models.ScanStats{
		ByType: map[models.ScanType]int64{
			models.ScanBody: 0,
			models.ScanFace: 0,
			models.ScanFood: 0,
		},
	}
	for _, row := range rows {
		stats.ByType[row.ScanType] = row.Count
		stats.TotalScans += row.Count
		stats.TotalXPEarned += row.XP
	}

	stats.Recent, err = r.ListByUser(ctx, userID, "", clampLimit(recent, 5, 20))
	if err != nil {
		return nil, err
	}
	return stats, nil
}
