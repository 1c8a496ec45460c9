package seed

import (
	"context"
	"fmt"
	"testing"

	"levelup/internal/auth"
	"levelup/internal/database"
	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name())
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

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed_CreatesConsistentData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	summary, err := Seed(ctx, db, Options{NumUsers: 6, NumPosts: 12, NumRooms: 2, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Users)
	assert.Equal(t, 12, summary.Posts)
	assert.Equal(t, 2, summary.Rooms)
	assert.Equal(t, int64(6), count(t, db, &models.User{}))
	assert.Equal(t, int64(12), count(t, db, &models.Post{}))
	assert.Equal(t, int64(summary.Likes), count(t, db, &models.PostLike{}))
	assert.Equal(t, int64(summary.Comments), count(t, db, &models.PostComment{}))
	assert.Equal(t, int64(summary.Messages), count(t, db, &models.ChatMessage{}))
	assert.Equal(t, int64(6), count(t, db, &models.Notification{}))

	// Like counters mirror the liker sets.
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		var likers int64
		require.NoError(t, db.Model(&models.PostLike{}).Where("post_id = ?", p.ID).Count(&likers).Error)
		assert.Equal(t, int(likers), p.Likes, "post %s", p.ID)
	}

	// Every room creator is a member.
	var rooms []models.ChatRoom
	require.NoError(t, db.Find(&rooms).Error)
	for _, r := range rooms {
		var n int64
		require.NoError(t, db.Model(&models.ChatRoomMember{}).
			Where("room_id = ? AND user_id = ?", r.ID, r.CreatedBy).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	}
}

func TestSeed_AccountsUseDemoPassword(t *testing.T) {
	db := setupTestDB(t)

	_, err := Seed(context.Background(), db, Options{NumUsers: 2, Seed: 7})
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 2)
	assert.NotEqual(t, users[0].Username, users[1].Username)
	for _, u := range users {
		assert.True(t, auth.CheckPassword(u.Password, DemoPassword))
		assert.GreaterOrEqual(t, u.Level, 1)
	}
}

func TestSeed_CleanReplacesData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := Seed(ctx, db, Options{NumUsers: 3, NumPosts: 3, NumRooms: 1, Seed: 1})
	require.NoError(t, err)
	_, err = Seed(ctx, db, Options{NumUsers: 2, NumPosts: 1, ShouldClean: true, Seed: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(2), count(t, db, &models.User{}))
	assert.Equal(t, int64(1), count(t, db, &models.Post{}))
	assert.Zero(t, count(t, db, &models.ChatRoom{}))
}

func TestSeed_RequiresUsers(t *testing.T) {
	_, err := Seed(context.Background(), setupTestDB(t), Options{})
	assert.Error(t, err)
}

func TestBuildUser_UniqueHandles(t *testing.T) {
	f, err := NewFactory(nil, Options{Seed: 3})
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 50 {
		u := f.BuildUser()
		assert.False(t, seen[u.Username], u.Username)
		seen[u.Username] = true
		assert.Contains(t, u.Email, "@levelup.dev")
	}
}
