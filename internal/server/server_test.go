package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// apiResponse mirrors the response envelope for test assertions.
type apiResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Token      string             `json:"token"`
	User       map[string]any     `json:"user"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Comment{},
		&models.Like{},
	))

	cache.SetClient(nil)

	cfg := &config.Config{
		Port:        "0",
		Env:         "test",
		JWTSecret:   "handler-test-secret-key-1234567890",
		JWTTTLHours: 1,
		FrontendURL: "http://localhost:3000",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return srv, app, db
}

// doRequest performs a JSON request against the test app and decodes the
// envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		// Redirect responses have no JSON body.
		_ = json.Unmarshal(raw, &envelope)
	}
	return resp, envelope
}

// registerUser registers an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, name, email string) (string, uint) {
	t.Helper()
	resp, envelope := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, envelope.Token)
	id := uint(envelope.User["id"].(float64))
	return envelope.Token, id
}

// promoteToAdmin flips the account's role directly in the store.
func promoteToAdmin(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).
		Update("role", models.RoleAdmin).Error)
}

// createBlogVia creates a blog through the API and returns its payload.
func createBlogVia(t *testing.T, app *fiber.App, token, title string) models.BlogPayload {
	t.Helper()
	resp, envelope := doRequest(t, app, http.MethodPost, "/api/blogs", token, fiber.Map{
		"title":   title,
		"content": "Some content for " + title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var blog models.BlogPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &blog))
	return blog
}

func blogPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/blogs/%d%s", id, suffix)
}
