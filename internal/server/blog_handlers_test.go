package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBlogRequiresAdmin(t *testing.T) {
	_, app, db := setupTestServer(t)

	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")
	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)

	resp, envelope := doRequest(t, app, http.MethodPost, "/api/blogs", readerToken, fiber.Map{
		"title":   "Denied",
		"content": "Body",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, envelope.Success)

	blog := createBlogVia(t, app, adminToken, "Allowed")
	assert.Equal(t, "Allowed", blog.Title)
	assert.Equal(t, adminID, blog.Author.ID)
	assert.Equal(t, 0, blog.Likes)
	assert.Equal(t, 0, blog.Comments)
	assert.Equal(t, uint(0), blog.Views)
	assert.True(t, blog.Published)

	// Anonymous creation is rejected outright.
	resp, _ = doRequest(t, app, http.MethodPost, "/api/blogs", "", fiber.Map{
		"title":   "Anon",
		"content": "Body",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListBlogsPagination(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)

	for i := 0; i < 25; i++ {
		createBlogVia(t, app, adminToken, fmt.Sprintf("Post %d", i))
	}

	resp, envelope := doRequest(t, app, http.MethodGet, "/api/blogs?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, int64(25), envelope.Pagination.Total)
	assert.Equal(t, 3, envelope.Pagination.Pages)
	assert.Equal(t, 1, envelope.Pagination.CurrentPage)

	var blogs []models.BlogPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &blogs))
	assert.Len(t, blogs, 10)

	// Past the last page: empty data, same window.
	resp, envelope = doRequest(t, app, http.MethodGet, "/api/blogs?page=4&limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &blogs))
	assert.Empty(t, blogs)
	assert.Equal(t, 3, envelope.Pagination.Pages)
	assert.Equal(t, 4, envelope.Pagination.CurrentPage)

	// Malformed paging parameters fall back to defaults.
	resp, envelope = doRequest(t, app, http.MethodGet, "/api/blogs?page=abc&limit=-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, envelope.Pagination.CurrentPage)
	assert.Equal(t, 10, envelope.Pagination.Limit)
}

func TestAuthorAndMyBlogListings(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Public")
	draft := createBlogVia(t, app, adminToken, "Draft")
	resp, _ := doRequest(t, app, http.MethodPut, blogPath(draft.ID, ""), adminToken, fiber.Map{
		"published": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var blogs []models.BlogPayload

	// Other viewers see only the author's published blogs.
	resp, envelope := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/author/%d", adminID), readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &blogs))
	require.Len(t, blogs, 1)
	assert.Equal(t, blog.ID, blogs[0].ID)

	// The author's own listing includes drafts.
	resp, envelope = doRequest(t, app, http.MethodGet, "/api/blogs/user/my-blogs", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &blogs))
	assert.Len(t, blogs, 2)

	// And so does their author listing when they view it themselves.
	resp, envelope = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/blogs/author/%d", adminID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &blogs))
	assert.Len(t, blogs, 2)

	// my-blogs requires a session.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/blogs/user/my-blogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetBlogViewCounting(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Viewed")

	var payload models.BlogPayload

	// The author's own visit does not count.
	resp, envelope := doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, uint(0), payload.Views)

	// A reader's visit does.
	resp, envelope = doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, uint(1), payload.Views)

	// So does an anonymous one.
	resp, envelope = doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, uint(2), payload.Views)
}

func TestGetBlogNotFound(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, envelope := doRequest(t, app, http.MethodGet, "/api/blogs/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Blog not found", envelope.Message)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/blogs/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikeUnlikeFlow(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Likeable")

	var payload models.BlogPayload

	resp, envelope := doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/like"), readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 1, payload.Likes)
	assert.True(t, payload.IsLiked)

	// Double like is rejected.
	resp, envelope = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/like"), readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You already liked this blog", envelope.Message)

	// The like is only visible as isLiked to the user who placed it.
	resp, envelope = doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 1, payload.Likes)
	assert.False(t, payload.IsLiked)

	resp, envelope = doRequest(t, app, http.MethodDelete, blogPath(blog.ID, "/like"), readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 0, payload.Likes)
	assert.False(t, payload.IsLiked)

	// Unliking again is rejected.
	resp, envelope = doRequest(t, app, http.MethodDelete, blogPath(blog.ID, "/like"), readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You have not liked this blog", envelope.Message)

	// Anonymous like is rejected.
	resp, _ = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/like"), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateAndDeleteBlogAuthorization(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Before")

	resp, _ := doRequest(t, app, http.MethodPut, blogPath(blog.ID, ""), readerToken, fiber.Map{
		"title": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, envelope := doRequest(t, app, http.MethodPut, blogPath(blog.ID, ""), adminToken, fiber.Map{
		"title":     "After",
		"published": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload models.BlogPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "After", payload.Title)
	assert.False(t, payload.Published)

	resp, _ = doRequest(t, app, http.MethodDelete, blogPath(blog.ID, ""), readerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, envelope = doRequest(t, app, http.MethodDelete, blogPath(blog.ID, ""), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	resp, _ = doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
