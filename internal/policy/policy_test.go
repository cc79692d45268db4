package policy

import (
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	admin  = &models.User{ID: 1, Role: models.RoleAdmin}
	author = &models.User{ID: 2, Role: models.RoleUser}
	reader = &models.User{ID: 3, Role: models.RoleUser}
)

func TestCanCreateBlog(t *testing.T) {
	assert.True(t, CanCreateBlog(admin))
	assert.False(t, CanCreateBlog(author))
	assert.False(t, CanCreateBlog(nil))
}

func TestCanModifyBlog(t *testing.T) {
	blog := &models.Blog{ID: 10, AuthorID: author.ID}

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"author", author, true},
		{"admin", admin, true},
		{"other user", reader, false},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModifyBlog(tt.actor, blog))
		})
	}

	assert.False(t, CanModifyBlog(author, nil))
}

func TestCanDeleteComment(t *testing.T) {
	blog := &models.Blog{ID: 10, AuthorID: author.ID}
	comment := &models.Comment{ID: 100, BlogID: blog.ID, UserID: reader.ID}

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"comment author", reader, true},
		{"blog author", author, true},
		{"admin", admin, true},
		{"unrelated user", &models.User{ID: 99, Role: models.RoleUser}, false},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteComment(tt.actor, comment, blog))
		})
	}

	assert.False(t, CanDeleteComment(reader, nil, blog))
	assert.False(t, CanDeleteComment(reader, comment, nil))
}
