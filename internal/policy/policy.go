// Package policy holds the pure authorization decision functions. Each
// function maps (actor, resource) to allow/deny without touching storage;
// callers translate a deny into a 403.
package policy

import "quill/internal/models"

// CanCreateBlog allows blog creation for admins only.
func CanCreateBlog(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanModifyBlog allows update and delete for the blog's author or an admin.
func CanModifyBlog(actor *models.User, blog *models.Blog) bool {
	if actor == nil || blog == nil {
		return false
	}
	return actor.ID == blog.AuthorID || actor.IsAdmin()
}

// CanDeleteComment allows deletion by the comment's author, the parent blog's
// author, or an admin.
func CanDeleteComment(actor *models.User, comment *models.Comment, blog *models.Blog) bool {
	if actor == nil || comment == nil || blog == nil {
		return false
	}
	return actor.ID == comment.UserID || actor.ID == blog.AuthorID || actor.IsAdmin()
}
