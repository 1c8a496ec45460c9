package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"levelup/internal/auth"
	"levelup/internal/cache"
	"levelup/internal/database"
	"levelup/internal/models"
	"levelup/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// repos bundles every repository over one test database.
type repos struct {
	db            *gorm.DB
	users         repository.UserRepository
	scans         repository.ScanRepository
	posts         repository.PostRepository
	chat          repository.ChatRepository
	notifications repository.NotificationRepository
	reminders     repository.ReminderRepository
	subs          repository.SubscriptionRepository
	media         repository.MediaRepository
	assistant     repository.AssistantRepository
}

func newRepos(t *testing.T) *repos {
	t.Helper()
	db := setupTestDB(t)
	return &repos{
		db:            db,
		users:         repository.NewUserRepository(db),
		scans:         repository.NewScanRepository(db),
		posts:         repository.NewPostRepository(db),
		chat:          repository.NewChatRepository(db),
		notifications: repository.NewNotificationRepository(db),
		reminders:     repository.NewReminderRepository(db),
		subs:          repository.NewSubscriptionRepository(db),
		media:         repository.NewMediaRepository(db),
		assistant:     repository.NewAssistantRepository(db),
	}
}

func (r *repos) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Username: strings.ToLower(name),
		Email:    strings.ToLower(name) + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, r.users.Create(context.Background(), user))
	return user
}

func newTestTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-that-is-long-enough-1234", 0)
}

// noCache is a pass-through store with no backing Redis.
var noCache = cache.NewStore(nil, "test")

func assertStatus(t *testing.T, want int, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, models.StatusFor(err), "unexpected error: %v", err)
}
