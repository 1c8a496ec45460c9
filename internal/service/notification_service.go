package service

import (
	"context"
	"log/slog"
	"strings"

	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/notifications"
	"levelup/internal/observability"
	"levelup/internal/repository"
)

type NotificationService struct {
	notifications repository.NotificationRepository
	notifier      *notifications.Notifier
}

type CreateNotificationInput struct {
	UserID  string
	Title   string
	Message string
	Type    string
}

// NotificationList is a page of notifications plus the user's unread total.
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func NewNotificationService(repo repository.NotificationRepository, notifier *notifications.Notifier) *NotificationService {
	return &NotificationService{notifications: repo, notifier: notifier}
}

// Create stores an unread notification and publishes it to the user's channel.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*models.Notification, error) {
	title := strings.TrimSpace(in.Title)
	if in.UserID == "" || title == "" {
		return nil, models.NewValidationError("user_id and title are required")
	}

	n := &models.Notification{
		UserID:  in.UserID,
		Title:   title,
		Message: in.Message,
		Type:    in.Type,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	err := s.notifier.PublishUser(ctx, n.UserID, notifications.Event{Type: "notification", Data: n})
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.String("user_id", n.UserID), slog.String("error", err.Error()))
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) (*NotificationList, error) {
	items, err := s.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}
