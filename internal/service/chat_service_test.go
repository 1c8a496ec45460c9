package service

import (
	"context"
	"testing"

	"levelup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(r *repos) *ChatService {
	return NewChatService(r.chat, r.users, NewNotificationService(r.notifications, nil), nil, noCache)
}

func TestChatService_CreateAndJoin(t *testing.T) {
	r := newRepos(t)
	svc := newChatService(r)
	ctx := context.Background()
	owner := r.seedUser(t, "Max")
	guest := r.seedUser(t, "Nia")

	room, err := svc.CreateRoom(ctx, CreateRoomInput{Name: "Morning lifts", CreatorID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "general", room.Category)
	assert.Equal(t, models.RoomPublic, room.Type)
	assert.EqualValues(t, 1, room.Members)

	require.NoError(t, svc.Join(ctx, guest.ID, room.ID))
	require.NoError(t, svc.Join(ctx, guest.ID, room.ID))

	members, err := svc.Members(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, "member", m.Role)
		assert.NotEmpty(t, m.Name)
	}

	rooms, err := svc.ListRooms(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.EqualValues(t, 2, rooms[0].Members)
	assert.True(t, rooms[0].IsJoined)

	assertStatus(t, 404, svc.Join(ctx, guest.ID, "missing"))
}

func TestChatService_CreateRoom_Validation(t *testing.T) {
	r := newRepos(t)
	svc := newChatService(r)
	ctx := context.Background()
	owner := r.seedUser(t, "Oz")

	_, err := svc.CreateRoom(ctx, CreateRoomInput{Name: " ", CreatorID: owner.ID})
	assertStatus(t, 400, err)

	_, err = svc.CreateRoom(ctx, CreateRoomInput{Name: "x", CreatorID: owner.ID, Type: "secret"})
	assertStatus(t, 400, err)

	_, err = svc.CreateRoom(ctx, CreateRoomInput{Name: "x", CreatorID: "missing"})
	assertStatus(t, 404, err)
}

func TestChatService_Messages(t *testing.T) {
	r := newRepos(t)
	svc := newChatService(r)
	ctx := context.Background()
	owner := r.seedUser(t, "Pat")

	room, err := svc.CreateRoom(ctx, CreateRoomInput{Name: "Meal prep", CreatorID: owner.ID})
	require.NoError(t, err)

	msg, err := svc.PostMessage(ctx, PostMessageInput{UserID: owner.ID, RoomID: room.ID, Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Pat", msg.User.Name)
	assert.Equal(t, "text", msg.Type)

	// Renaming later does not rewrite the snapshot.
	require.NoError(t, r.users.UpdateFields(ctx, owner.ID, map[string]any{"name": "Patricia"}))
	_, err = svc.PostMessage(ctx, PostMessageInput{UserID: owner.ID, RoomID: room.ID, Message: "again"})
	require.NoError(t, err)

	msgs, err := svc.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Message)
	assert.Equal(t, "Pat", msgs[0].User.Name)
	assert.Equal(t, "Patricia", msgs[1].User.Name)

	stored, err := r.chat.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "again", stored.LastMessage)

	_, err = svc.PostMessage(ctx, PostMessageInput{UserID: owner.ID, RoomID: room.ID})
	assertStatus(t, 400, err)
	_, err = svc.PostMessage(ctx, PostMessageInput{UserID: owner.ID, RoomID: "missing", Message: "x"})
	assertStatus(t, 404, err)
	_, err = svc.PostMessage(ctx, PostMessageInput{UserID: "missing", RoomID: room.ID, Message: "x"})
	assertStatus(t, 404, err)
}

func TestChatService_Invite(t *testing.T) {
	r := newRepos(t)
	svc := newChatService(r)
	ctx := context.Background()
	owner := r.seedUser(t, "Quin")
	friend := r.seedUser(t, "Rae")
	outsider := r.seedUser(t, "Sol")

	room, err := svc.CreateRoom(ctx, CreateRoomInput{Name: "Runners", CreatorID: owner.ID})
	require.NoError(t, err)

	err = svc.Invite(ctx, InviteInput{InviterID: outsider.ID, RoomID: room.ID, InviteeID: friend.ID})
	assertStatus(t, 403, err)

	require.NoError(t, svc.Invite(ctx, InviteInput{InviterID: owner.ID, RoomID: room.ID, InviteeID: friend.ID}))
	require.NoError(t, svc.Invite(ctx, InviteInput{InviterID: owner.ID, RoomID: room.ID, InviteeID: friend.ID}))

	member, err := r.chat.IsMember(ctx, room.ID, friend.ID)
	require.NoError(t, err)
	assert.True(t, member)

	notes, err := r.notifications.ListByUser(ctx, friend.ID, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1, "re-inviting a member sends nothing")
	assert.Equal(t, "chat_invite", notes[0].Type)

	err = svc.Invite(ctx, InviteInput{InviterID: owner.ID, RoomID: "missing", InviteeID: friend.ID})
	assertStatus(t, 404, err)
}
