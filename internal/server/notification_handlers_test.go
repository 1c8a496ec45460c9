package server

import (
	"net/http"
	"testing"

	"levelup/internal/models"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.register(t, "Hana")
	_, otherToken := ts.register(t, "Ike")

	var first models.Notification
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/notifications",
		fiber.Map{"user_id": user.ID, "title": "Welcome", "message": "Glad you're here"}, "", &first))
	assert.Equal(t, "info", first.Type)
	assert.False(t, first.Read)
	ts.do(t, http.MethodPost, "/api/notifications",
		fiber.Map{"user_id": user.ID, "title": "Streak", "type": "achievement"}, "", nil)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/notifications",
		fiber.Map{"user_id": user.ID, "title": "  "}, "", nil))

	var list service.NotificationList
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/user/"+user.ID+"/notifications", nil, "", &list))
	assert.Len(t, list.Notifications, 2)
	assert.Equal(t, int64(2), list.UnreadCount)

	t.Run("mark one read", func(t *testing.T) {
		var res map[string]any
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, "/api/notifications/"+first.ID+"/read", nil, "", &res))
		assert.Equal(t, true, res["read"])
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/notifications/user/"+user.ID, nil, "", &list))
		assert.Equal(t, int64(1), list.UnreadCount)

		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPatch, "/api/notifications/missing/read", nil, "", nil))
	})

	t.Run("mark all read", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPatch,
			"/api/notifications/user/"+user.ID+"/read-all", nil, otherToken, nil))

		var res struct {
			Updated int64 `json:"updated"`
		}
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch,
			"/api/notifications/user/"+user.ID+"/read-all", nil, token, &res))
		assert.Equal(t, int64(1), res.Updated)

		require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/notifications/user/"+user.ID, nil, "", &list))
		assert.Zero(t, list.UnreadCount)
	})
}
