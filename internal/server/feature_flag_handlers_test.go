package server

import (
	"net/http"
	"testing"

	"levelup/internal/config"
	"levelup/internal/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlags(t *testing.T) {
	ts := newTestServerWith(t, func(cfg *config.Config) {
		cfg.FeatureFlags = "scan_moderation=on,assistant_llm=0%"
	})
	user, token := ts.register(t, "Flo")

	var anon FeatureFlagsResponse
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/feature-flags", nil, "", &anon))
	assert.Equal(t, "on", anon.Raw[featureflags.ScanModeration])
	assert.True(t, anon.Evaluated[featureflags.ScanModeration])
	assert.False(t, anon.Evaluated[featureflags.AssistantLLM])
	assert.Empty(t, anon.UserID)

	var mine FeatureFlagsResponse
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/feature-flags", nil, token, &mine))
	assert.Equal(t, user.ID, mine.UserID)
}

func TestGetFeatureFlags_Defaults(t *testing.T) {
	ts := newTestServer(t)

	var res FeatureFlagsResponse
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/feature-flags?user_id=u1", nil, "", &res))
	assert.Empty(t, res.Raw)
	assert.Equal(t, map[string]bool{
		featureflags.ScanModeration: false,
		featureflags.AssistantLLM:   true,
	}, res.Evaluated)
	assert.Equal(t, "u1", res.UserID)
}
