package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, time.Minute, mr.TTL("rl:login:ip:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	allowed, err := CheckRateLimit(context.Background(), nil, "login", "1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	_, rdb := newTestRedis(t)

	tests := []struct {
		name     string
		rdb      *redis.Client
		cfg      RateLimitConfig
		expected []int
	}{
		{
			name:     "limits after threshold in production",
			rdb:      rdb,
			cfg:      RateLimitConfig{Name: "auth", Limit: 2, Window: time.Minute, Env: "production"},
			expected: []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests},
		},
		{
			name:     "bypassed in development",
			rdb:      rdb,
			cfg:      RateLimitConfig{Name: "dev", Limit: 1, Window: time.Minute, Env: "development"},
			expected: []int{http.StatusOK, http.StatusOK, http.StatusOK},
		},
		{
			name:     "fail open without redis",
			cfg:      RateLimitConfig{Name: "open", Limit: 1, Window: time.Minute, Env: "production"},
			expected: []int{http.StatusOK, http.StatusOK},
		},
		{
			name:     "fail closed without redis",
			cfg:      RateLimitConfig{Name: "closed", Limit: 1, Window: time.Minute, Env: "production", Policy: FailClosed},
			expected: []int{http.StatusServiceUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", RateLimit(tt.rdb, tt.cfg), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			for i, want := range tt.expected {
				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
				require.NoError(t, err)
				assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
			}
		})
	}
}
