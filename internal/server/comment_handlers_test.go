package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentThreadData struct {
	ID           uint                    `json:"id"`
	Comments     int                     `json:"comments"`
	CommentsList []models.CommentPayload `json:"commentsList"`
}

// addCommentVia posts a comment and returns the blog's updated thread; the
// newest comment is the last element of CommentsList.
func addCommentVia(t *testing.T, app *fiber.App, token string, blogID uint, text string) commentThreadData {
	t.Helper()
	resp, envelope := doRequest(t, app, http.MethodPost, blogPath(blogID, "/comments"), token, fiber.Map{
		"text": text,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var thread commentThreadData
	require.NoError(t, json.Unmarshal(envelope.Data, &thread))
	require.NotEmpty(t, thread.CommentsList)
	return thread
}

func TestCreateCommentFlow(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Discussed")

	// Adding a comment returns the blog's updated count and full list.
	thread := addCommentVia(t, app, readerToken, blog.ID, "  First!  ")
	assert.Equal(t, blog.ID, thread.ID)
	assert.Equal(t, 1, thread.Comments)
	require.Len(t, thread.CommentsList, 1)
	comment := thread.CommentsList[0]
	assert.Equal(t, "First!", comment.Text)
	assert.Equal(t, "Reader", comment.User.Name)
	// Comment authors are shown without their email.
	assert.Empty(t, comment.User.Email)

	// Comments appear on the blog detail in insertion order.
	thread = addCommentVia(t, app, readerToken, blog.ID, "Second")
	assert.Equal(t, 2, thread.Comments)
	require.Len(t, thread.CommentsList, 2)
	assert.Equal(t, "Second", thread.CommentsList[1].Text)
	resp, envelope := doRequest(t, app, http.MethodGet, blogPath(blog.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload models.BlogPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 2, payload.Comments)
	require.Len(t, payload.CommentsList, 2)
	assert.Equal(t, "First!", payload.CommentsList[0].Text)
	assert.Equal(t, "Second", payload.CommentsList[1].Text)
}

func TestCreateCommentValidation(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	readerToken, _ := registerUser(t, app, "Reader", "reader@example.com")

	blog := createBlogVia(t, app, adminToken, "Strict")

	resp, _ := doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/comments"), readerToken, fiber.Map{
		"text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/comments"), readerToken, fiber.Map{
		"text": strings.Repeat("x", models.MaxCommentLen+1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Exactly at the limit is allowed.
	resp, _ = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/comments"), readerToken, fiber.Map{
		"text": strings.Repeat("x", models.MaxCommentLen),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// The limit counts characters, not bytes.
	resp, _ = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/comments"), readerToken, fiber.Map{
		"text": strings.Repeat("é", models.MaxCommentLen),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/blogs/999/comments", readerToken, fiber.Map{
		"text": "orphan",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, blogPath(blog.ID, "/comments"), "", fiber.Map{
		"text": "anon",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	_, app, db := setupTestServer(t)

	adminToken, adminID := registerUser(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, adminID)
	authorToken, authorID := registerUser(t, app, "Author", "author@example.com")
	promoteToAdmin(t, db, authorID)
	commenterToken, _ := registerUser(t, app, "Commenter", "commenter@example.com")
	strangerToken, _ := registerUser(t, app, "Stranger", "stranger@example.com")

	blog := createBlogVia(t, app, authorToken, "Moderated")

	commentPath := func(id uint) string {
		return blogPath(blog.ID, fmt.Sprintf("/comments/%d", id))
	}
	newestID := func(thread commentThreadData) uint {
		return thread.CommentsList[len(thread.CommentsList)-1].ID
	}

	// A stranger cannot delete someone else's comment.
	commentID := newestID(addCommentVia(t, app, commenterToken, blog.ID, "hello"))
	resp, _ := doRequest(t, app, http.MethodDelete, commentPath(commentID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The comment's author can; the response carries the remaining count.
	resp, envelope := doRequest(t, app, http.MethodDelete, commentPath(commentID), commenterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	var remaining commentThreadData
	require.NoError(t, json.Unmarshal(envelope.Data, &remaining))
	assert.Equal(t, 0, remaining.Comments)

	// The blog's author can delete others' comments.
	commentID = newestID(addCommentVia(t, app, commenterToken, blog.ID, "again"))
	resp, _ = doRequest(t, app, http.MethodDelete, commentPath(commentID), authorToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An admin can always delete.
	commentID = newestID(addCommentVia(t, app, commenterToken, blog.ID, "and again"))
	resp, envelope = doRequest(t, app, http.MethodDelete, commentPath(commentID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope.Data, &remaining))
	assert.Equal(t, 0, remaining.Comments)

	// A deleted comment stays deleted.
	resp, _ = doRequest(t, app, http.MethodDelete, commentPath(commentID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
