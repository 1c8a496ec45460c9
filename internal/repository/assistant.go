package repository

import (
	"context"
	"sync/atomic"
	"time"

	"levelup/internal/models"

	"gorm.io/gorm"
)

// AssistantRepository stores coach conversation turns.
type AssistantRepository interface {
	Append(ctx context.Context, msgs ...*models.AssistantMessage) error
	History(ctx context.Context, userID, sessionID string, limit int) ([]models.AssistantMessage, error)
}

// lastSeq backs nextSeq. Values start at the wall clock so a restarted
// process keeps counting upward.
var lastSeq atomic.Int64

func nextSeq() int64 {
	for {
		prev := lastSeq.Load()
		next := max(prev+1, time.Now().UnixNano())
		if lastSeq.CompareAndSwap(prev, next) {
			return next
		}
	}
}

type assistantRepository struct {
	db *gorm.DB
}

// NewAssistantRepository returns a new AssistantRepository implementation.
func NewAssistantRepository(db *gorm.DB) AssistantRepository {
	return &assistantRepository{db: db}
}

func (r *assistantRepository) Append(ctx context.Context, msgs ...*models.AssistantMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range msgs {
			m.Seq = nextSeq()
			if err := tx.Create(m).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
}

// History returns the newest limit turns oldest first. An empty sessionID
// spans all of the user's sessions.
func (r *assistantRepository) History(ctx context.Context, userID, sessionID string, limit int) ([]models.AssistantMessage, error) {
	limit = clampLimit(limit, 100, 500)

	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}

	var msgs []models.AssistantMessage
	if err := q.Order("created_at DESC, seq DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
