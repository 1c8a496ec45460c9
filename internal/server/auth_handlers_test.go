package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"levelup/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates account and token", func(t *testing.T) {
		user, token := ts.register(t, "Ana Lee")
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "ana", user.Username)
		assert.Equal(t, 1, user.Level)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		var res models.ErrorResponse
		status := ts.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
			"name": "Ana Again", "email": "ANA.LEE@example.com", "password": "secret123",
		}, "", &res)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, models.CodeConflict, res.Code)

		var count int64
		require.NoError(t, ts.db.Model(&models.User{}).Where("email = ?", "ana.lee@example.com").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("username collision gets a suffix", func(t *testing.T) {
		var res struct {
			User models.User `json:"user"`
		}
		status := ts.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
			"name": "Ana Other", "email": "ana.other@example.com", "password": "secret123",
		}, "", &res)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "ana1", res.User.Username)
	})

	t.Run("short password", func(t *testing.T) {
		status := ts.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
			"name": "Bo", "email": "bo@example.com", "password": "123",
		}, "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, ts.send(t, req, nil))
	})
}

func TestRegister_NeverExposesPassword(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Cy","email":"cy@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Dee Kay")

	t.Run("correct credentials", func(t *testing.T) {
		var res struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		status := ts.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email": "Dee.Kay@example.com", "password": "secret123",
		}, "", &res)
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "dee", res.User.Username)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		var wrong, unknown models.ErrorResponse
		assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email": "dee.kay@example.com", "password": "nope-nope",
		}, "", &wrong))
		assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email": "nobody@example.com", "password": "nope-nope",
		}, "", &unknown))
		assert.Equal(t, wrong, unknown)
		assert.Equal(t, "Invalid email or password", wrong.Error)
	})
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.register(t, "Eve")

	var me models.User
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/auth/me", nil, token, &me))
	assert.Equal(t, user.ID, me.ID)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/auth/me", nil, "", nil))
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/auth/me", nil, "garbage", nil))
}
