package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

// AddCommentInput carries the fields of a comment creation request.
type AddCommentInput struct {
	BlogID uint
	Text   string
}

// CommentThread is a blog's comment state after a comment mutation. The
// list is chronological and its last element is the newest comment.
type CommentThread struct {
	ID           uint                    `json:"id"`
	Comments     int                     `json:"comments"`
	CommentsList []models.CommentPayload `json:"commentsList"`
}

// CommentService implements comment business logic.
type CommentService struct {
	blogs    repository.BlogRepository
	comments repository.CommentRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(blogs repository.BlogRepository, comments repository.CommentRepository) *CommentService {
	return &CommentService{blogs: blogs, comments: comments}
}

// Add attaches a comment by actor to a blog and returns the blog's updated
// comment thread.
func (s *CommentService) Add(ctx context.Context, actor *models.User, input AddCommentInput) (*CommentThread, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLen {
		return nil, models.NewValidationError("Comment must be at most 500 characters")
	}

	if _, err := s.blogs.GetByID(ctx, input.BlogID, actor.ID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		BlogID: input.BlogID,
		UserID: actor.ID,
		User:   *actor,
		Text:   text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	list, err := s.comments.ListByBlog(ctx, input.BlogID)
	if err != nil {
		return nil, err
	}

	return &CommentThread{
		ID:           input.BlogID,
		Comments:     len(list),
		CommentsList: models.CommentPayloads(list),
	}, nil
}

// Delete removes a comment and returns the blog's remaining comment count.
// The comment's author, the blog's author, and admins may delete.
func (s *CommentService) Delete(ctx context.Context, actor *models.User, blogID, commentID uint) (int, error) {
	blog, err := s.blogs.GetByID(ctx, blogID, actor.ID)
	if err != nil {
		return 0, err
	}

	comment, err := s.comments.GetByID(ctx, blogID, commentID)
	if err != nil {
		return 0, err
	}

	if !policy.CanDeleteComment(actor, comment, blog) {
		return 0, models.NewAuthorizationError("You are not allowed to delete this comment")
	}

	if err := s.comments.Delete(ctx, blogID, commentID); err != nil {
		return 0, err
	}

	count, err := s.comments.CountByBlog(ctx, blogID)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
