package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"levelup/internal/models"
	"levelup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaUploadAndServe(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.register(t, "Opal")
	data := testutil.PNG(testutil.Split(6, 6, 0.5, testutil.Skin, testutil.Sky))

	var uploaded struct {
		ID          string `json:"id"`
		ContentType string `json:"content_type"`
		Filename    string `json:"filename"`
		Size        int    `json:"size"`
		URL         string `json:"url"`
	}
	req := multipartRequest(t, "/api/media/upload", "file", "../../progress.png", data, map[string]string{"user_id": user.ID})
	require.Equal(t, http.StatusCreated, ts.send(t, req, &uploaded))
	assert.Equal(t, "image/png", uploaded.ContentType)
	assert.Equal(t, "progress.png", uploaded.Filename)
	assert.Equal(t, len(data), uploaded.Size)
	assert.Equal(t, "/api/media/"+uploaded.ID, uploaded.URL)

	resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, uploaded.URL, nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")
	assert.Equal(t, data, served)
}

func TestMediaUpload_Rejections(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "Piet")

	var res models.ErrorResponse
	req := multipartRequest(t, "/api/media/upload", "file", "big.bin",
		bytes.Repeat([]byte{1}, testMediaLimit+1), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.Equal(t, http.StatusRequestEntityTooLarge, ts.send(t, req, &res))
	assert.Equal(t, models.CodeOversize, res.Code)

	req = multipartRequest(t, "/api/media/upload", "", "", nil, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, ts.send(t, req, nil))

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/media/missing", nil, "", nil))
}

func TestMediaUpload_MarkupServedAsOctetStream(t *testing.T) {
	ts := newTestServer(t)
	user, _ := ts.register(t, "Quill")

	var uploaded struct {
		ID          string `json:"id"`
		ContentType string `json:"content_type"`
	}
	page := []byte("<!DOCTYPE html><html><body><script>alert(1)</script></body></html>")
	req := multipartRequest(t, "/api/media/upload", "file", "avatar.png", page, map[string]string{"user_id": user.ID})
	require.Equal(t, http.StatusCreated, ts.send(t, req, &uploaded))
	assert.Equal(t, "application/octet-stream", uploaded.ContentType)

	resp, err := ts.app.Test(httptest.NewRequest(http.MethodGet, "/api/media/"+uploaded.ID, nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
