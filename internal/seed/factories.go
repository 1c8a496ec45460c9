// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"levelup/internal/auth"
	"levelup/internal/models"
	"levelup/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

var (
	fitnessGoals   = []string{"lose fat", "build muscle", "improve sleep", "clearer skin", "run a 10k", "eat cleaner"}
	activityLevels = []string{"sedentary", "light", "moderate", "high"}
	roomCategories = []string{"Fitness", "Nutrition", "Skincare", "Running", "Mindfulness"}
	postLines      = []string{
		"Hit a new PR on deadlifts today",
		"Meal prep Sunday is done",
		"Day %d of my streak, feeling great",
		"Anyone have tips for recovery after leg day?",
		"Swapped soda for sparkling water this week",
		"Morning run through the park, %d km",
	}
	reminderTitles = []string{"Drink water", "Evening stretch", "Log breakfast", "Weekly body scan", "Skincare routine"}
)

// Factory builds domain entities and persists them through the repositories
// so seeded rows keep the same invariants as API writes.
type Factory struct {
	faker     *gofakeit.Faker
	users     repository.UserRepository
	posts     repository.PostRepository
	chat      repository.ChatRepository
	reminders repository.ReminderRepository
	notes     repository.NotificationRepository
	maxDays   int
	password  string
	nextUser  int
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	return &Factory{
		faker:     gofakeit.New(opts.Seed),
		users:     repository.NewUserRepository(db),
		posts:     repository.NewPostRepository(db),
		chat:      repository.NewChatRepository(db),
		reminders: repository.NewReminderRepository(db),
		notes:     repository.NewNotificationRepository(db),
		maxDays:   maxDays,
		password:  hashed,
	}, nil
}

// pastTime returns a realistic created_at within the configured window.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.IntRange(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// BuildUser constructs a user without persisting it. Usernames and emails
// carry a per-factory counter so they never collide.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	f.nextUser++
	first := f.faker.FirstName()
	last := f.faker.LastName()
	handle := strings.ToLower(first)

	user := &models.User{
		Name:          first + " " + last,
		Email:         fmt.Sprintf("%s.%s.%d@levelup.dev", handle, strings.ToLower(last), f.nextUser),
		Username:      fmt.Sprintf("%s%d", handle, f.nextUser),
		Password:      f.password,
		Avatar:        fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Bio:           f.faker.Sentence(8),
		Level:         f.faker.IntRange(1, 8),
		XP:            f.faker.IntRange(0, 99),
		StreakDays:    f.faker.IntRange(0, 14),
		Age:           f.faker.IntRange(18, 65),
		Goals:         []string{f.faker.RandomString(fitnessGoals)},
		ActivityLevel: f.faker.RandomString(activityLevels),
	}
	user.OnboardingCompleted = true
	for _, override := range overrides {
		override(user)
	}
	return user
}

func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for author without persisting it.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	line := f.faker.RandomString(postLines)
	if strings.Contains(line, "%d") {
		line = fmt.Sprintf(line, f.faker.IntRange(2, 30))
	}
	post := &models.Post{
		UserID:    author.ID,
		Content:   line,
		Type:      "text",
		CreatedAt: f.pastTime(),
	}
	if f.faker.Bool() {
		post.Type = "media"
		post.Media = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())}
	}
	return post
}

func (f *Factory) CreatePost(ctx context.Context, author *models.User) (*models.Post, error) {
	post := f.BuildPost(author)
	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Like toggles a like on, so calling it for an existing liker unlikes.
func (f *Factory) Like(ctx context.Context, user *models.User, post *models.Post) error {
	_, err := f.posts.ToggleLike(ctx, post.ID, user.ID)
	return err
}

func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post) (*models.PostComment, error) {
	comment := &models.PostComment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: f.faker.Sentence(f.faker.IntRange(3, 10)),
	}
	if err := f.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateRoom creates a public room owned by creator.
func (f *Factory) CreateRoom(ctx context.Context, creator *models.User, name string) (*models.ChatRoom, error) {
	room := &models.ChatRoom{
		Name:        name,
		Description: f.faker.Sentence(6),
		Category:    f.faker.RandomString(roomCategories),
		Type:        models.RoomPublic,
		CreatedBy:   creator.ID,
	}
	if err := f.chat.CreateRoom(ctx, room, creator.ID); err != nil {
		return nil, err
	}
	return room, nil
}

func (f *Factory) Join(ctx context.Context, user *models.User, room *models.ChatRoom) error {
	_, err := f.chat.AddMember(ctx, room.ID, user.ID)
	return err
}

func (f *Factory) CreateMessage(ctx context.Context, author *models.User, room *models.ChatRoom) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		RoomID:     room.ID,
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Message:    f.faker.Sentence(f.faker.IntRange(3, 12)),
		Type:       "text",
	}
	if err := f.chat.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (f *Factory) CreateReminder(ctx context.Context, user *models.User) (*models.Reminder, error) {
	reminder := &models.Reminder{
		UserID:  user.ID,
		Title:   f.faker.RandomString(reminderTitles),
		Time:    fmt.Sprintf("%02d:%02d", f.faker.IntRange(6, 21), f.faker.RandomInt([]int{0, 15, 30, 45})),
		Days:    []string{"Mon", "Wed", "Fri"},
		Enabled: true,
	}
	if err := f.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (f *Factory) CreateWelcome(ctx context.Context, user *models.User) error {
	return f.notes.Create(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "Welcome to LevelUp",
		Message: "Complete a scan today to start your streak.",
		Type:    "info",
	})
}
