package repository

import (
	"context"
	"errors"

	"quill/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for a blog's comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, blogID, commentID uint) (*models.Comment, error)
	ListByBlog(ctx context.Context, blogID uint) ([]*models.Comment, error)
	CountByBlog(ctx context.Context, blogID uint) (int64, error)
	Delete(ctx context.Context, blogID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID resolves a comment scoped to its owning blog; a comment id that
// exists under another blog is reported as not found.
func (r *commentRepository) GetByID(ctx context.Context, blogID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("blog_id = ?", blogID).
		First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByBlog returns the blog's comments in insertion (chronological) order.
func (r *commentRepository) ListByBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("blog_id = ?", blogID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountByBlog(ctx context.Context, blogID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("blog_id = ?", blogID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *commentRepository) Delete(ctx context.Context, blogID, commentID uint) error {
	err := r.db.WithContext(ctx).
		Where("blog_id = ?", blogID).
		Delete(&models.Comment{}, commentID).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
