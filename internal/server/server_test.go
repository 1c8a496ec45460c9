package server

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestLivenessCheck(t *testing.T) {
	ts := newTestServer(t)

	var res map[string]any
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/live", nil, "", &res))
	assert.Equal(t, "up", res["status"])
}

func TestReadinessCheck(t *testing.T) {
	t.Run("redis is optional", func(t *testing.T) {
		ts := newTestServer(t)

		var res readiness
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/ready", nil, "", &res))
		assert.Equal(t, "healthy", res.Status)
		assert.Equal(t, "unavailable", res.Checks["redis"])
		assert.Equal(t, "healthy", res.Checks["database"])
	})

	t.Run("configured redis must answer", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		s, err := NewServerWithDeps(testConfig(), testDB(t), rdb)
		require.NoError(t, err)
		ts := &testServer{Server: s, app: s.App()}

		var res readiness
		require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/ready", nil, "", &res))
		assert.Equal(t, "healthy", res.Checks["redis"])

		mr.Close()
		require.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/health/ready", nil, "", &res))
		assert.Equal(t, "unhealthy", res.Status)
		assert.Equal(t, "unhealthy", res.Checks["redis"])
	})

	t.Run("database down", func(t *testing.T) {
		ts := newTestServer(t)
		sqlDB, err := ts.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		var res readiness
		require.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/health", nil, "", &res))
		assert.Equal(t, "unhealthy", res.Checks["database"])
	})
}

func TestNewServerWithDeps_RequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(), nil, nil)
	assert.Error(t, err)
	_, err = NewServerWithDeps(nil, testDB(t), nil)
	assert.Error(t, err)
}

func TestUnknownRouteIs404(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/nope", nil, "", nil))
}
