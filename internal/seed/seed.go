package seed

import (
	"context"
	"fmt"
	"log/slog"

	"levelup/internal/database"
	"levelup/internal/middleware"
	"levelup/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumRooms    int
	ShouldClean bool
	// Seed makes generated content reproducible. Zero picks a random seed.
	Seed    int64
	MaxDays int
}

// DefaultOptions is the demo dataset used by cmd/seed and the bootstrap layer.
func DefaultOptions() Options {
	return Options{NumUsers: 20, NumPosts: 60, NumRooms: 4}
}

// Summary counts what a run created.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Likes     int
	Rooms     int
	Messages  int
	Reminders int
}

var roomNames = []string{
	"Morning Runners", "Meal Prep Club", "Lifting Crew", "Glow Up Skincare",
	"Yoga & Mobility", "Hydration Challenge", "Sleep Better",
}

// Seed populates the database with demo data.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("seed requires at least one user")
	}
	middleware.Logger.InfoContext(ctx, "starting database seeding",
		slog.Int("users", opts.NumUsers), slog.Int("posts", opts.NumPosts), slog.Int("rooms", opts.NumRooms))

	if opts.ShouldClean {
		if err := ClearAll(ctx, db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	summary := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for range opts.NumUsers {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		if err := f.CreateWelcome(ctx, u); err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}
		if f.faker.Bool() {
			if _, err := f.CreateReminder(ctx, u); err != nil {
				return nil, fmt.Errorf("create reminder: %w", err)
			}
			summary.Reminders++
		}
	}
	summary.Users = len(users)

	for i := range opts.NumPosts {
		post, err := f.CreatePost(ctx, users[i%len(users)])
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		summary.Posts++

		// Each other user likes at most once, so toggles never undo each other.
		for _, u := range users {
			if u.ID == post.UserID || f.faker.IntRange(0, 3) != 0 {
				continue
			}
			if err := f.Like(ctx, u, post); err != nil {
				return nil, fmt.Errorf("like post: %w", err)
			}
			summary.Likes++
		}
		for range f.faker.IntRange(0, 3) {
			commenter := users[f.faker.IntRange(0, len(users)-1)]
			if _, err := f.CreateComment(ctx, commenter, post); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			summary.Comments++
		}
	}

	for i := range min(opts.NumRooms, len(roomNames)) {
		creator := users[i%len(users)]
		room, err := f.CreateRoom(ctx, creator, roomNames[i])
		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}
		summary.Rooms++

		members := []*models.User{creator}
		for _, u := range users {
			if u.ID != creator.ID && f.faker.Bool() {
				if err := f.Join(ctx, u, room); err != nil {
					return nil, fmt.Errorf("join room: %w", err)
				}
				members = append(members, u)
			}
		}
		for range f.faker.IntRange(2, 8) {
			author := members[f.faker.IntRange(0, len(members)-1)]
			if _, err := f.CreateMessage(ctx, author, room); err != nil {
				return nil, fmt.Errorf("create message: %w", err)
			}
			summary.Messages++
		}
	}

	middleware.Logger.InfoContext(ctx, "database seeding completed",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("likes", summary.Likes),
		slog.Int("rooms", summary.Rooms),
		slog.Int("messages", summary.Messages),
	)
	return summary, nil
}

// ClearAll deletes every row from the schema-managed tables, children first.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	tables := database.PersistentModels()
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(tables) - 1; i >= 0; i-- {
		if err := tx.Delete(tables[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
