package repository

import (
	"context"
	"testing"
	"time"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	guest := seedUser(t, db, "guest")

	room := &models.ChatRoom{Name: "Lifters", Category: "strength"}
	require.NoError(t, repo.CreateRoom(ctx, room, owner.ID))
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, models.RoomPublic, room.Type)

	t.Run("CreatorIsMember", func(t *testing.T) {
		ok, err := repo.IsMember(ctx, room.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AddMemberIsIdempotent", func(t *testing.T) {
		added, err := repo.AddMember(ctx, room.ID, guest.ID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repo.AddMember(ctx, room.ID, guest.ID)
		require.NoError(t, err)
		assert.False(t, added)

		counts, err := repo.MemberCounts(ctx, []string{room.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[room.ID])

		members, err := repo.ListMembers(ctx, room.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{owner.ID, guest.ID}, members)
	})

	t.Run("AddMemberUnknownRoom", func(t *testing.T) {
		_, err := repo.AddMember(ctx, "missing", guest.ID)
		assert.Equal(t, 404, models.StatusFor(err))
	})

	t.Run("Messages", func(t *testing.T) {
		base := time.Now().Add(-time.Minute)
		for i, text := range []string{"one", "two", "three"} {
			msg := &models.ChatMessage{
				RoomID:    room.ID,
				UserID:    owner.ID,
				UserName:  owner.Name,
				Message:   text,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}
			require.NoError(t, repo.CreateMessage(ctx, msg))
			assert.Equal(t, owner.Name, msg.User.Name)
		}

		msgs, err := repo.ListMessages(ctx, room.ID, 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "two", msgs[0].Message)
		assert.Equal(t, "three", msgs[1].Message)
		assert.Equal(t, owner.ID, msgs[1].User.ID)

		stored, err := repo.GetRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, "three", stored.LastMessage)
	})

	t.Run("MessageUnknownRoom", func(t *testing.T) {
		err := repo.CreateMessage(ctx, &models.ChatMessage{RoomID: "missing", UserID: owner.ID, Message: "hi"})
		assert.Equal(t, 404, models.StatusFor(err))
	})

	t.Run("RoomsForUser", func(t *testing.T) {
		other := &models.ChatRoom{Name: "Runners"}
		require.NoError(t, repo.CreateRoom(ctx, other, guest.ID))

		rooms, err := repo.ListRoomsForUser(ctx, guest.ID, 0)
		require.NoError(t, err)
		assert.Len(t, rooms, 2)

		rooms, err = repo.ListRoomsForUser(ctx, owner.ID, 0)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, room.ID, rooms[0].ID)
	})
}
