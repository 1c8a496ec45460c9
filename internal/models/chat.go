package models

import (
	"time"

	"gorm.io/gorm"
)

// Room visibility.
const (
	RoomPublic  = "public"
	RoomPrivate = "private"
)

// ChatRoom is a group conversation.
type ChatRoom struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	Category     string    `gorm:"type:varchar(64)" json:"category"`
	Type         string    `gorm:"type:varchar(16);not null;default:public" json:"type"`
	CreatedBy    string    `gorm:"type:varchar(36);not null" json:"created_by"`
	LastMessage  string    `json:"lastMessage"`
	LastActivity time.Time `gorm:"index" json:"lastActivity"`
	CreatedAt    time.Time `json:"created_at"`

	Members  int64 `gorm:"-" json:"members"`
	IsJoined bool  `gorm:"-" json:"isJoined"`
}

func (r *ChatRoom) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	if r.Type == "" {
		r.Type = RoomPublic
	}
	return nil
}

// ChatRoomMember is one member of a room's member set.
type ChatRoomMember struct {
	RoomID   string    `gorm:"type:varchar(36);primaryKey" json:"room_id"`
	UserID   string    `gorm:"type:varchar(36);primaryKey;index" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// ChatMessage stores the author's display fields as they were when it was sent.
type ChatMessage struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoomID     string    `gorm:"type:varchar(36);not null;index:idx_room_created" json:"room_id"`
	UserID     string    `gorm:"type:varchar(36);not null" json:"-"`
	UserName   string    `json:"-"`
	UserAvatar string    `json:"-"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Type       string    `gorm:"type:varchar(16);not null;default:text" json:"type"`
	CreatedAt  time.Time `gorm:"index:idx_room_created" json:"timestamp"`

	User UserSummary `gorm:"-" json:"user"`
}

func (m *ChatMessage) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	if m.Type == "" {
		m.Type = "text"
	}
	return nil
}

// AfterFind fills the display user from the snapshot columns.
func (m *ChatMessage) AfterFind(_ *gorm.DB) error {
	m.fillUser()
	return nil
}

func (m *ChatMessage) fillUser() {
	m.User = UserSummary{ID: m.UserID, Name: m.UserName, Avatar: m.UserAvatar}
}

// AfterCreate mirrors AfterFind so a freshly posted message renders the same way.
func (m *ChatMessage) AfterCreate(_ *gorm.DB) error {
	m.fillUser()
	return nil
}

// RoomMember is a member as listed by the room roster. Presence is not
// tracked, so the roster carries no online state.
type RoomMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}
