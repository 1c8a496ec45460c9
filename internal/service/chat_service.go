package service

import (
	"context"
	"log/slog"
	"strings"

	"levelup/internal/cache"
	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/notifications"
	"levelup/internal/observability"
	"levelup/internal/repository"
)

const defaultRoomCategory = "general"

// ChatService manages rooms, membership and messages.
type ChatService struct {
	chat          repository.ChatRepository
	users         repository.UserRepository
	notifications *NotificationService
	notifier      *notifications.Notifier
	cache         *cache.Store
}

type CreateRoomInput struct {
	Name        string
	Description string
	Category    string
	Type        string
	CreatorID   string
}

type PostMessageInput struct {
	UserID  string
	RoomID  string
	Message string
	Type    string
}

type InviteInput struct {
	InviterID string
	RoomID    string
	InviteeID string
}

func NewChatService(
	chat repository.ChatRepository,
	users repository.UserRepository,
	notificationService *NotificationService,
	notifier *notifications.Notifier,
	store *cache.Store,
) *ChatService {
	return &ChatService{
		chat:          chat,
		users:         users,
		notifications: notificationService,
		notifier:      notifier,
		cache:         store,
	}
}

func (s *ChatService) CreateRoom(ctx context.Context, in CreateRoomInput) (*models.ChatRoom, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Room name is required")
	}
	if in.CreatorID == "" {
		return nil, models.NewValidationError("creator_id is required")
	}
	if _, err := s.users.GetByID(ctx, in.CreatorID); err != nil {
		return nil, err
	}

	roomType := in.Type
	switch roomType {
	case "":
		roomType = models.RoomPublic
	case models.RoomPublic, models.RoomPrivate:
	default:
		return nil, models.NewValidationError("Room type must be public or private")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultRoomCategory
	}

	room := &models.ChatRoom{
		Name:        name,
		Description: in.Description,
		Category:    category,
		Type:        roomType,
	}
	if err := s.chat.CreateRoom(ctx, room, in.CreatorID); err != nil {
		return nil, err
	}
	room.Members = 1
	room.IsJoined = true
	return room, nil
}

// Join adds userID to the room. Joining twice is not an error.
func (s *ChatService) Join(ctx context.Context, userID, roomID string) error {
	if userID == "" || roomID == "" {
		return models.NewValidationError("user_id and room_id are required")
	}
	added, err := s.chat.AddMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if added {
		s.publish(ctx, roomID, "member_joined", map[string]string{"user_id": userID})
	}
	return nil
}

// Invite adds the invitee to a room the inviter belongs to and notifies them.
func (s *ChatService) Invite(ctx context.Context, in InviteInput) error {
	if in.InviterID == "" || in.RoomID == "" || in.InviteeID == "" {
		return models.NewValidationError("user_id, room_id and invitee_id are required")
	}

	room, err := s.chat.GetRoom(ctx, in.RoomID)
	if err != nil {
		return err
	}
	member, err := s.chat.IsMember(ctx, room.ID, in.InviterID)
	if err != nil {
		return err
	}
	if !member {
		return models.NewForbiddenError("Only room members can invite")
	}
	inviter, err := s.users.GetByID(ctx, in.InviterID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, in.InviteeID); err != nil {
		return err
	}

	added, err := s.chat.AddMember(ctx, room.ID, in.InviteeID)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:  in.InviteeID,
		Title:   "Chat invitation",
		Message: inviter.Name + " invited you to " + room.Name,
		Type:    "chat_invite",
	}); err != nil {
		middleware.Logger.WarnContext(ctx, "invite notification failed",
			slog.String("room_id", room.ID), slog.String("error", err.Error()))
	}
	s.publish(ctx, room.ID, "member_joined", map[string]string{"user_id": in.InviteeID})
	return nil
}

func (s *ChatService) Members(ctx context.Context, roomID string) ([]models.RoomMember, error) {
	if _, err := s.chat.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	ids, err := s.chat.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	members := make([]models.RoomMember, 0, len(ids))
	for _, id := range ids {
		summary, err := userSummary(ctx, s.cache, s.users, id)
		if err != nil {
			return nil, err
		}
		members = append(members, models.RoomMember{
			ID:     id,
			Name:   summary.Name,
			Avatar: summary.Avatar,
			Role:   "member",
		})
	}
	return members, nil
}

// PostMessage stores a message with the author's current display fields.
func (s *ChatService) PostMessage(ctx context.Context, in PostMessageInput) (*models.ChatMessage, error) {
	body := strings.TrimSpace(in.Message)
	if in.UserID == "" || in.RoomID == "" || body == "" {
		return nil, models.NewValidationError("user_id, room_id and message are required")
	}

	if _, err := s.chat.GetRoom(ctx, in.RoomID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		RoomID:     in.RoomID,
		UserID:     user.ID,
		UserName:   user.Name,
		UserAvatar: user.Avatar,
		Message:    body,
		Type:       in.Type,
	}
	if err := s.chat.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessageThroughput.WithLabelValues(msg.Type).Inc()
	s.publish(ctx, msg.RoomID, "message", msg)
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	if _, err := s.chat.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.chat.ListMessages(ctx, roomID, 0)
}

// ListRooms returns the rooms userID belongs to, most recently active first.
func (s *ChatService) ListRooms(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	rooms, err := s.chat.ListRoomsForUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rooms))
	for i := range rooms {
		ids[i] = rooms[i].ID
	}
	counts, err := s.chat.MemberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		rooms[i].Members = counts[rooms[i].ID]
		rooms[i].IsJoined = true
		if rooms[i].Category == "" {
			rooms[i].Category = defaultRoomCategory
		}
	}
	return rooms, nil
}

func (s *ChatService) publish(ctx context.Context, roomID, eventType string, data any) {
	err := s.notifier.PublishRoom(ctx, roomID, notifications.Event{Type: eventType, Data: data})
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		middleware.Logger.WarnContext(ctx, "room publish failed",
			slog.String("room_id", roomID), slog.String("error", err.Error()))
	}
}
