package repository

import (
	"context"
	"time"

	"levelup/internal/models"
	"levelup/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository defines persistence operations for chat rooms, members and messages.
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *models.ChatRoom, creatorID string) error
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	// AddMember inserts userID into the room's member set. Re-adding an
	// existing member is a no-op that still refreshes last activity.
	AddMember(ctx context.Context, roomID, userID string) (added bool, err error)
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
	MemberCounts(ctx context.Context, roomIDs []string) (map[string]int64, error)
	ListMembers(ctx context.Context, roomID string) ([]string, error)
	ListRoomsForUser(ctx context.Context, userID string, limit int) ([]models.ChatRoom, error)
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom, creatorID string) error {
	defer observability.TrackQuery("create", "chat_rooms")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room.CreatedBy = creatorID
		if room.LastActivity.IsZero() {
			room.LastActivity = time.Now()
		}
		if err := tx.Create(room).Error; err != nil {
			return models.NewInternalError(err)
		}
		member := models.ChatRoomMember{RoomID: room.ID, UserID: creatorID}
		if err := tx.Create(&member).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *chatRepository) GetRoom(ctx context.Context, id string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, notFoundOr(err, "Chat room", id)
	}
	return &room, nil
}

func (r *chatRepository) AddMember(ctx context.Context, roomID, userID string) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		touched := tx.Model(&models.ChatRoom{}).Where("id = ?", roomID).
			UpdateColumn("last_activity", time.Now())
		if touched.Error != nil {
			return models.NewInternalError(touched.Error)
		}
		if touched.RowsAffected == 0 {
			return models.NewNotFoundError("Chat room", roomID)
		}

		member := models.ChatRoomMember{RoomID: roomID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		added = res.RowsAffected == 1
		return nil
	})
	return added, err
}

func (r *chatRepository) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ChatRoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

type roomMemberCount struct {
	RoomID string
	Count  int64
}

func (r *chatRepository) MemberCounts(ctx context.Context, roomIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}

	var rows []roomMemberCount
	err := r.db.WithContext(ctx).Model(&models.ChatRoomMember{}).
		Select("room_id, COUNT(*) AS count").
		Where("room_id IN ?", roomIDs).
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		counts[row.RoomID] = row.Count
	}
	return counts, nil
}

func (r *chatRepository) ListMembers(ctx context.Context, roomID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.ChatRoomMember{}).
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *chatRepository) ListRoomsForUser(ctx context.Context, userID string, limit int) ([]models.ChatRoom, error) {
	defer observability.TrackQuery("list_for_user", "chat_rooms")()

	limit = clampLimit(limit, 50, 100)
	var rooms []models.ChatRoom
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_room_members ON chat_room_members.room_id = chat_rooms.id").
		Where("chat_room_members.user_id = ?", userID).
		Order("chat_rooms.last_activity DESC").
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rooms, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	defer observability.TrackQuery("create", "chat_messages")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Model(&models.ChatRoom{}).Where("id = ?", msg.RoomID).Updates(map[string]any{
			"last_message":  msg.Message,
			"last_activity": msg.CreatedAt,
		})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Chat room", msg.RoomID)
		}
		return nil
	})
}

// ListMessages returns the newest limit messages in chronological order.
func (r *chatRepository) ListMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	limit = clampLimit(limit, 200, 200)

	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// Fetched newest first to apply the window; clients expect oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
