package repository

import (
	"context"
	"sync"
	"testing"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	post := &models.Post{UserID: author.ID, Content: "first workout"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, "text", post.Type)

	t.Run("like then unlike", func(t *testing.T) {
		res, err := repo.ToggleLike(ctx, post.ID, fan.ID)
		require.NoError(t, err)
		assert.True(t, res.Liked)
		assert.Equal(t, 1, res.Likes)

		liked, err := repo.LikedPostIDs(ctx, fan.ID, []string{post.ID})
		require.NoError(t, err)
		assert.True(t, liked[post.ID])

		res, err = repo.ToggleLike(ctx, post.ID, fan.ID)
		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.Equal(t, 0, res.Likes)

		stored, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Likes)
	})

	t.Run("count follows the liker set", func(t *testing.T) {
		var wg sync.WaitGroup
		for _, u := range []string{author.ID, fan.ID} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := repo.ToggleLike(ctx, post.ID, id)
				assert.NoError(t, err)
			}(u)
		}
		wg.Wait()

		stored, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Likes)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := repo.ToggleLike(ctx, "missing", fan.ID)
		assert.Equal(t, 404, models.StatusFor(err))
	})
}

func TestPostRepository_CommentsAndShares(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "writer")

	post := &models.Post{UserID: author.ID, Content: "progress pic", Media: []string{"/api/media/abc"}}
	require.NoError(t, repo.Create(ctx, post))

	for _, text := range []string{"nice", "keep going"} {
		require.NoError(t, repo.AddComment(ctx, &models.PostComment{PostID: post.ID, UserID: author.ID, Content: text}))
	}

	comments, err := repo.ListComments(ctx, post.ID, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "nice", comments[0].Content)

	counts, err := repo.CommentCounts(ctx, []string{post.ID, "other"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[post.ID])
	assert.Zero(t, counts["other"])

	shares, err := repo.IncrementShares(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, shares)
	shares, err = repo.IncrementShares(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, shares)

	_, err = repo.IncrementShares(ctx, "missing")
	assert.Equal(t, 404, models.StatusFor(err))

	recent, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, []string{"/api/media/abc"}, recent[0].Media)
}
