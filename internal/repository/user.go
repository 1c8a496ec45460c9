package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"levelup/internal/models"
	"levelup/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// CompleteOnboarding writes the profile fields and marks onboarding done.
	// first is true only for the call that flipped the flag.
	CompleteOnboarding(ctx context.Context, id string, fields map[string]any) (first bool, err error)
	// CompareAndSetProgress writes level/xp only if the row still holds
	// fromLevel/fromXP. It reports whether the write happened.
	CompareAndSetProgress(ctx context.Context, id string, fromLevel, fromXP, toLevel, toXP int) (bool, error)
	UpdateStreak(ctx context.Context, id string, streakDays int, scanDate time.Time) error
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	Leaderboard(ctx context.Context, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where(`username LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Pluck("username", &names).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return names, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields, err := encodeListFields(fields)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Username or email already taken")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) CompleteOnboarding(ctx context.Context, id string, fields map[string]any) (bool, error) {
	fields, err := encodeListFields(fields)
	if err != nil {
		return false, err
	}
	fields["onboarding_completed"] = true

	first := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND onboarding_completed = ?", id, false).
		Updates(fields)
	if first.Error != nil {
		return false, models.NewInternalError(first.Error)
	}
	if first.RowsAffected == 1 {
		return true, nil
	}
	return false, r.UpdateFields(ctx, id, fields)
}

// encodeListFields copies fields with []string values JSON encoded. Map
// updates bypass field serializers, so list columns would otherwise be
// expanded as SQL lists.
func encodeListFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if list, ok := v.([]string); ok {
			encoded, err := json.Marshal(list)
			if err != nil {
				return nil, models.NewValidationError("invalid value for " + k)
			}
			v = string(encoded)
		}
		out[k] = v
	}
	return out, nil
}

func (r *userRepository) CompareAndSetProgress(ctx context.Context, id string, fromLevel, fromXP, toLevel, toXP int) (bool, error) {
	defer observability.TrackQuery("update_progress", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND level = ? AND xp = ?", id, fromLevel, fromXP).
		Updates(map[string]any{"level": toLevel, "xp": toXP, "updated_at": time.Now()})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) UpdateStreak(ctx context.Context, id string, streakDays int, scanDate time.Time) error {
	return r.UpdateFields(ctx, id, map[string]any{
		"streak_days":    streakDays,
		"last_scan_date": scanDate,
	})
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	limit = clampLimit(limit, 20, 50)
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	var users []models.User
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("level DESC, xp DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	limit = clampLimit(limit, 20, 100)

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("level DESC, xp DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards for use with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
