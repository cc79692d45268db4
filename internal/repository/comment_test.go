package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByBlogChronological(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "Author", "author@example.com", models.RoleAdmin)
	reader := createTestUser(t, db, "Reader", "reader@example.com", models.RoleUser)
	blog := createTestBlog(t, db, author, "Discussed")

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		c := &models.Comment{
			BlogID:    blog.ID,
			UserID:    reader.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, c))
	}

	comments, err := repo.ListByBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)
	assert.Equal(t, reader.Name, comments[0].User.Name)
}

func TestCommentRepository_GetByIDScopedToBlog(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "Author", "author@example.com", models.RoleAdmin)
	reader := createTestUser(t, db, "Reader", "reader@example.com", models.RoleUser)
	blogA := createTestBlog(t, db, author, "A")
	blogB := createTestBlog(t, db, author, "B")

	comment := &models.Comment{BlogID: blogA.ID, UserID: reader.ID, Text: "on A"}
	require.NoError(t, repo.Create(ctx, comment))

	got, err := repo.GetByID(ctx, blogA.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "on A", got.Text)

	// The same comment id under the wrong blog is not found.
	_, err = repo.GetByID(ctx, blogB.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusOf(err))
}

func TestCommentRepository_Delete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "Author", "author@example.com", models.RoleAdmin)
	reader := createTestUser(t, db, "Reader", "reader@example.com", models.RoleUser)
	blog := createTestBlog(t, db, author, "Moderated")

	comment := &models.Comment{BlogID: blog.ID, UserID: reader.ID, Text: "spam"}
	require.NoError(t, repo.Create(ctx, comment))

	count, err := repo.CountByBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, blog.ID, comment.ID))

	count, err = repo.CountByBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.GetByID(ctx, blog.ID, comment.ID)
	assert.Equal(t, 404, models.StatusOf(err))

	comments, err := repo.ListByBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
