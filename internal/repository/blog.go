package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/observability"

	"gorm.io/gorm"
)

// BlogFilter selects which blogs a list query returns.
type BlogFilter struct {
	// AuthorID restricts the list to one author when non-zero.
	AuthorID uint
	// PublishedOnly hides drafts. The owner's own listing sets this false.
	PublishedOnly bool
}

// BlogRepository defines the interface for blog data operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error)
	List(ctx context.Context, filter BlogFilter, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	Count(ctx context.Context, filter BlogFilter) (int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, blogID uint) (bool, error)
	Like(ctx context.Context, userID, blogID uint) error
	Unlike(ctx context.Context, userID, blogID uint) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	defer observability.TrackQuery("create", "blogs")()
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	defer observability.TrackQuery("read", "blogs")()
	var blog models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		First(&blog, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog")
		}
		return nil, models.NewInternalError(err)
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, filter BlogFilter, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	defer observability.TrackQuery("list", "blogs")()
	var blogs []*models.Blog
	err := r.applyFilter(r.applyBlogDetails(r.db.WithContext(ctx), currentUserID), filter).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) Count(ctx context.Context, filter BlogFilter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Blog{}), filter).
		Count(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// applyFilter appends the WHERE clauses for the requested list filter.
func (r *blogRepository) applyFilter(db *gorm.DB, filter BlogFilter) *gorm.DB {
	if filter.PublishedOnly {
		db = db.Where("published = ?", true)
	}
	if filter.AuthorID != 0 {
		db = db.Where("author_id = ?", filter.AuthorID)
	}
	return db
}

// applyBlogDetails adds subqueries to fetch counts and liked status in a single query.
func (r *blogRepository) applyBlogDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "blogs.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.blog_id = blogs.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = blogs.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	defer observability.TrackQuery("update", "blogs")()
	// Save with Select limits the write to mutable columns; the author
	// reference and the view counter are never rewritten from a stale struct.
	err := r.db.WithContext(ctx).
		Model(blog).
		Select("title", "content", "published", "updated_at").
		Updates(blog).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "blogs")()
	// The blog owns its comments and likes: removing it removes them too.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("blog_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Blog{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	// Atomic in-database increment; concurrent views never lose updates.
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	observability.BlogViews.Inc()
	return nil
}

func (r *blogRepository) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *blogRepository) Like(ctx context.Context, userID, blogID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic against the unique index,
	// so two concurrent likes cannot produce a duplicate row.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, blog_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, blog_id) DO NOTHING`,
		userID, blogID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) Unlike(ctx context.Context, userID, blogID uint) error {
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
