package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_CRUD(t *testing.T) {
	r := newRepos(t)
	svc := NewReminderService(r.reminders, r.users)
	ctx := context.Background()
	user := r.seedUser(t, "Val")
	other := r.seedUser(t, "Wes")

	created, err := svc.Create(ctx, CreateReminderInput{
		UserID: user.ID,
		Title:  " Drink water ",
		Time:   "08:30",
		Days:   []string{"Mon", "mon", " tue "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Drink water", created.Title)
	assert.Equal(t, "custom", created.ReminderType)
	assert.Equal(t, []string{"Mon", "tue"}, created.Days)
	assert.True(t, created.Enabled)

	off := false
	paused, err := svc.Create(ctx, CreateReminderInput{UserID: user.ID, Title: "Stretch", Time: "21:00", Enabled: &off})
	require.NoError(t, err)
	assert.False(t, paused.Enabled)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[1].Enabled)

	newTime := "09:15"
	on := true
	updated, err := svc.Update(ctx, paused.ID, user.ID, UpdateReminderInput{Time: &newTime, Enabled: &on})
	require.NoError(t, err)
	assert.Equal(t, "09:15", updated.Time)
	assert.True(t, updated.Enabled)
	assert.Equal(t, "Stretch", updated.Title)

	_, err = svc.Update(ctx, paused.ID, other.ID, UpdateReminderInput{Enabled: &off})
	assertStatus(t, 403, err)

	removed, err := svc.Delete(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = svc.Get(ctx, created.ID)
	assertStatus(t, 404, err)
	_, err = svc.Delete(ctx, created.ID, "")
	assertStatus(t, 404, err)
}

func TestReminderService_Validation(t *testing.T) {
	r := newRepos(t)
	svc := NewReminderService(r.reminders, r.users)
	ctx := context.Background()
	user := r.seedUser(t, "Xan")

	tests := []struct {
		name string
		in   CreateReminderInput
	}{
		{"blank title", CreateReminderInput{UserID: user.ID, Title: "  ", Time: "08:00"}},
		{"missing time", CreateReminderInput{UserID: user.ID, Title: "Walk"}},
		{"bad time", CreateReminderInput{UserID: user.ID, Title: "Walk", Time: "25:00"}},
		{"missing user id", CreateReminderInput{Title: "Walk", Time: "08:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assertStatus(t, 400, err)
		})
	}

	_, err := svc.Create(ctx, CreateReminderInput{UserID: "missing", Title: "Walk", Time: "08:00"})
	assertStatus(t, 404, err)

	created, err := svc.Create(ctx, CreateReminderInput{UserID: user.ID, Title: "Walk", Time: "08:00"})
	require.NoError(t, err)

	blank := ""
	_, err = svc.Update(ctx, created.ID, user.ID, UpdateReminderInput{Title: &blank})
	assertStatus(t, 400, err)
	bad := "8am"
	_, err = svc.Update(ctx, created.ID, user.ID, UpdateReminderInput{Time: &bad})
	assertStatus(t, 400, err)
	_, err = svc.Update(ctx, "missing", user.ID, UpdateReminderInput{})
	assertStatus(t, 404, err)
}
