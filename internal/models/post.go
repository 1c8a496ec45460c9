package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a feed entry. Likes mirrors the number of PostLike rows for the post.
type Post struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"type:varchar(32);not null;default:text" json:"type"`
	Media     []string  `gorm:"type:text;serializer:json" json:"media"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Shares    int       `gorm:"not null;default:0" json:"shares"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	if p.Type == "" {
		p.Type = "text"
	}
	return nil
}

// PostLike is one member of a post's liker set.
type PostLike struct {
	PostID    string    `gorm:"type:varchar(36);primaryKey" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostComment is a comment on a post, ordered by CreatedAt.
type PostComment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;index" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

func (c *PostComment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// FeedPost is a post as rendered in the feed.
type FeedPost struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	Content   string      `json:"content"`
	Type      string      `json:"type"`
	Media     []string    `json:"media"`
	Likes     int         `json:"likes"`
	Comments  int64       `json:"comments"`
	Shares    int         `json:"shares"`
	IsLiked   bool        `json:"isLiked"`
	Timestamp time.Time   `json:"timestamp"`
}

// CommentView is a comment with its author's display fields.
type CommentView struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
