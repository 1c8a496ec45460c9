package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"levelup/internal/config"
	"levelup/internal/database"
	"levelup/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testMediaLimit = 2048

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		JWTSecret:          "test-secret-that-is-long-enough-1234",
		JWTTTLHours:        1,
		MediaMaxBytes:      testMediaLimit,
		RateLimitPerMinute: 10000,
		PaymentsPublicKey:  "pk_test_server",
		PaymentsSuccessURL: "http://localhost:3000/payment/success",
		OTELServiceName:    "levelup-test",
	}
}

// testServer is a fully wired Server over a private in-memory database.
type testServer struct {
	*Server
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test adjust the config before the server is wired.
func newTestServerWith(t *testing.T, configure func(*config.Config)) *testServer {
	t.Helper()

	db := testDB(t)
	cfg := testConfig()
	if configure != nil {
		configure(cfg)
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return &testServer{Server: s, app: s.App(), db: db}
}

// testDB opens a migrated in-memory database private to the test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:srv_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// do sends a JSON request and decodes the response into out when non-nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.send(t, req, out)
}

func (ts *testServer) send(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// register creates an account through the API and returns it with its token.
func (ts *testServer) register(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	var res struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	status := ts.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"name":     name,
		"email":    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		"password": "secret123",
	}, "", &res)
	require.Equal(t, http.StatusCreated, status)
	return &res.User, res.Token
}

// multipartRequest builds a form with one file field plus plain fields.
func multipartRequest(t *testing.T, path, field, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (ts *testServer) userByID(t *testing.T, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, ts.db.WithContext(context.Background()).First(&u, "id = ?", id).Error)
	return &u
}
