package server

import (
	"bytes"
	"net/http"
	"testing"

	"levelup/internal/config"
	"levelup/internal/models"
	"levelup/internal/service"
	"levelup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScan_BodyAwardsEightXP(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.register(t, "Nia")

	req := multipartRequest(t, "/api/scan/body", "file", "body.png",
		testutil.PNG(testutil.Solid(8, 8, testutil.Sky)), map[string]string{"user_id": user.ID})

	var res service.ScanResult
	require.Equal(t, http.StatusOK, ts.send(t, req, &res))
	assert.Equal(t, 8, res.XPEarned)
	assert.Equal(t, models.ScanStatusApproved, res.Status)
	assert.Equal(t, "Body scan completed successfully", res.Message)
	assert.Contains(t, res.Analysis, "posture")
	assert.Contains(t, res.Analysis, "composition")

	stored := ts.userByID(t, user.ID)
	assert.Equal(t, 8, stored.XP)
	assert.Equal(t, 1, stored.StreakDays)
}

func TestSubmitScan_Validation(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.register(t, "Oli")
	_, otherToken := ts.register(t, "Pam")
	image := testutil.PNG(testutil.Solid(4, 4, testutil.Sky))

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
	}{
		{"unknown type", func() *http.Request {
			return multipartRequest(t, "/api/scan/hair", "file", "x.png", image, map[string]string{"user_id": user.ID})
		}, http.StatusBadRequest},
		{"missing file", func() *http.Request {
			return multipartRequest(t, "/api/scan/face", "", "", nil, map[string]string{"user_id": user.ID})
		}, http.StatusBadRequest},
		{"empty file", func() *http.Request {
			return multipartRequest(t, "/api/scan/face", "file", "x.png", []byte{}, map[string]string{"user_id": user.ID})
		}, http.StatusBadRequest},
		{"missing user", func() *http.Request {
			return multipartRequest(t, "/api/scan/face", "file", "x.png", image, nil)
		}, http.StatusBadRequest},
		{"unknown user", func() *http.Request {
			return multipartRequest(t, "/api/scan/face", "file", "x.png", image, map[string]string{"user_id": "ghost"})
		}, http.StatusNotFound},
		{"oversize", func() *http.Request {
			big := bytes.Repeat([]byte{0xff}, testMediaLimit+1)
			return multipartRequest(t, "/api/scan/food", "file", "x.jpg", big, map[string]string{"user_id": user.ID})
		}, http.StatusRequestEntityTooLarge},
		{"other user's token", func() *http.Request {
			req := multipartRequest(t, "/api/scan/food", "file", "x.png", image, map[string]string{"user_id": user.ID})
			req.Header.Set("Authorization", "Bearer "+otherToken)
			return req
		}, http.StatusForbidden},
		{"own token without user_id", func() *http.Request {
			req := multipartRequest(t, "/api/scan/food", "image", "x.png", image, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			return req
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ts.send(t, tt.req(), nil))
		})
	}

	assert.Equal(t, 5, ts.userByID(t, user.ID).XP)
}

func TestSubmitScan_ModerationHoldsXP(t *testing.T) {
	ts := newTestServerWith(t, func(cfg *config.Config) {
		cfg.FeatureFlags = "scan_moderation=on"
	})
	user, _ := ts.register(t, "Quin")

	req := multipartRequest(t, "/api/scan/body", "file", "skin.png",
		testutil.PNG(testutil.Solid(32, 32, testutil.Skin)), map[string]string{"user_id": user.ID})

	var res service.ScanResult
	require.Equal(t, http.StatusOK, ts.send(t, req, &res))
	assert.Equal(t, models.ScanStatusPendingReview, res.Status)
	assert.Zero(t, res.XPEarned)
	assert.Nil(t, res.Analysis)
	assert.Zero(t, ts.userByID(t, user.ID).XP)
}

func TestScanListAndStats(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.register(t, "Ray")
	image := testutil.PNG(testutil.Solid(4, 4, testutil.Sky))

	for _, scanType := range []string{"body", "face", "face"} {
		req := multipartRequest(t, "/api/scan/"+scanType, "file", "x.png", image, map[string]string{"user_id": user.ID})
		require.Equal(t, http.StatusOK, ts.send(t, req, nil))
	}

	var list struct {
		Scans []models.ScanRecord `json:"scans"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/user/"+user.ID+"/scans?scan_type=face", nil, "", &list))
	assert.Len(t, list.Scans, 2)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/user/"+user.ID+"/scans?scan_type=hair", nil, "", nil))

	var stats models.ScanStats
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/user/"+user.ID+"/scan-stats", nil, "", &stats))
	assert.Equal(t, int64(3), stats.TotalScans)
	assert.Equal(t, int64(2), stats.ByType[models.ScanFace])
	assert.Equal(t, int64(20), stats.TotalXPEarned)
	assert.Len(t, stats.Recent, 3)
}
