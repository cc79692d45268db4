package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

// Pagination defaults for blog listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// CreateBlogInput carries the fields of a blog creation request.
type CreateBlogInput struct {
	Title     string
	Content   string
	Published *bool
}

// UpdateBlogInput carries the fields of a blog update request. Nil fields
// are left untouched.
type UpdateBlogInput struct {
	Title     *string
	Content   *string
	Published *bool
}

// ListBlogsInput selects a page of the blog listing.
type ListBlogsInput struct {
	Page     int
	Limit    int
	AuthorID uint
}

// BlogPage is one page of blog payloads with its pagination window.
type BlogPage struct {
	Blogs      []models.BlogPayload
	Pagination *models.Pagination
}

// BlogService implements blog, like, and view business logic.
type BlogService struct {
	blogs    repository.BlogRepository
	comments repository.CommentRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogs repository.BlogRepository, comments repository.CommentRepository) *BlogService {
	return &BlogService{blogs: blogs, comments: comments}
}

// Create publishes a new blog authored by actor. Only admins may create
// blogs.
func (s *BlogService) Create(ctx context.Context, actor *models.User, input CreateBlogInput) (*models.BlogPayload, error) {
	if !policy.CanCreateBlog(actor) {
		return nil, models.NewAuthorizationError("Only admins can create blogs")
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLen {
		return nil, models.NewValidationError("Title must be at most 200 characters")
	}

	blog := &models.Blog{
		Title:     title,
		Content:   content,
		AuthorID:  actor.ID,
		Author:    *actor,
		Published: true,
	}
	if input.Published != nil {
		blog.Published = *input.Published
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}

	payload := blog.Payload()
	return &payload, nil
}

// List returns one page of published blogs, newest first. A page past the
// end yields an empty list with the same pagination window.
func (s *BlogService) List(ctx context.Context, currentUserID uint, input ListBlogsInput) (*BlogPage, error) {
	page := input.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filter := repository.BlogFilter{
		AuthorID:      input.AuthorID,
		PublishedOnly: true,
	}
	// Authors see their own drafts in their listing.
	if input.AuthorID != 0 && input.AuthorID == currentUserID {
		filter.PublishedOnly = false
	}

	total, err := s.blogs.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	blogs, err := s.blogs.List(ctx, filter, limit, (page-1)*limit, currentUserID)
	if err != nil {
		return nil, err
	}

	payloads := make([]models.BlogPayload, 0, len(blogs))
	for _, b := range blogs {
		payloads = append(payloads, b.Payload())
	}

	return &BlogPage{
		Blogs:      payloads,
		Pagination: models.NewPagination(total, page, limit),
	}, nil
}

// Get returns one blog with its comment list. Unless the viewer is the
// author, the blog's view counter is incremented first so the returned
// payload reflects the visit.
func (s *BlogService) Get(ctx context.Context, id uint, currentUserID uint) (*models.BlogPayload, error) {
	blog, err := s.blogs.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if currentUserID == 0 || currentUserID != blog.AuthorID {
		if err := s.blogs.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
		blog.Views++
	}

	comments, err := s.comments.ListByBlog(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := blog.Payload()
	payload.CommentsList = models.CommentPayloads(comments)
	return &payload, nil
}

// Update applies a partial edit to a blog. Only the author or an admin may
// edit; the author reference never changes.
func (s *BlogService) Update(ctx context.Context, actor *models.User, id uint, input UpdateBlogInput) (*models.BlogPayload, error) {
	blog, err := s.blogs.GetByID(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyBlog(actor, blog) {
		return nil, models.NewAuthorizationError("You are not allowed to modify this blog")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if utf8.RuneCountInString(title) > models.MaxTitleLen {
			return nil, models.NewValidationError("Title must be at most 200 characters")
		}
		blog.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		blog.Content = content
	}
	if input.Published != nil {
		blog.Published = *input.Published
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, err
	}

	payload := blog.Payload()
	return &payload, nil
}

// Delete removes a blog together with its comments and likes. Only the
// author or an admin may delete.
func (s *BlogService) Delete(ctx context.Context, actor *models.User, id uint) error {
	blog, err := s.blogs.GetByID(ctx, id, actor.ID)
	if err != nil {
		return err
	}

	if !policy.CanModifyBlog(actor, blog) {
		return models.NewAuthorizationError("You are not allowed to delete this blog")
	}

	return s.blogs.Delete(ctx, id)
}

// Like records actor's like on a blog. Liking an already-liked blog is an
// error.
func (s *BlogService) Like(ctx context.Context, actor *models.User, id uint) (*models.BlogPayload, error) {
	if _, err := s.blogs.GetByID(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	liked, err := s.blogs.IsLiked(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, models.NewConflictError("You already liked this blog")
	}

	if err := s.blogs.Like(ctx, actor.ID, id); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	payload := blog.Payload()
	return &payload, nil
}

// Unlike removes actor's like from a blog. Unliking a blog that was never
// liked is an error.
func (s *BlogService) Unlike(ctx context.Context, actor *models.User, id uint) (*models.BlogPayload, error) {
	if _, err := s.blogs.GetByID(ctx, id, actor.ID); err != nil {
		return nil, err
	}

	liked, err := s.blogs.IsLiked(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}
	if !liked {
		return nil, models.NewConflictError("You have not liked this blog")
	}

	if err := s.blogs.Unlike(ctx, actor.ID, id); err != nil {
		return nil, err
	}

	blog, err := s.blogs.GetByID(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	payload := blog.Payload()
	return &payload, nil
}
