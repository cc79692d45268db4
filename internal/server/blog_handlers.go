package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createBlogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

type updateBlogRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

// CreateBlog handles POST /api/blogs.
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req createBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.Create(c.UserContext(), actor, service.CreateBlogInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Response{
		Success: true,
		Message: "Blog created successfully",
		Data:    blog,
	})
}

// GetBlogs handles GET /api/blogs.
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	result, err := s.blogService.List(c.UserContext(), currentUserID(c), service.ListBlogsInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success:    true,
		Data:       result.Blogs,
		Pagination: result.Pagination,
	})
}

// GetBlogsByAuthor handles GET /api/blogs/author/:authorId. The author sees
// their own drafts; everyone else sees published blogs only.
func (s *Server) GetBlogsByAuthor(c *fiber.Ctx) error {
	authorID, err := parseIDParam(c, "authorId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	page, limit := parsePagination(c)
	result, err := s.blogService.List(c.UserContext(), currentUserID(c), service.ListBlogsInput{
		Page:     page,
		Limit:    limit,
		AuthorID: authorID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success:    true,
		Data:       result.Blogs,
		Pagination: result.Pagination,
	})
}

// GetMyBlogs handles GET /api/blogs/user/my-blogs.
func (s *Server) GetMyBlogs(c *fiber.Ctx) error {
	uid := currentUserID(c)
	page, limit := parsePagination(c)

	result, err := s.blogService.List(c.UserContext(), uid, service.ListBlogsInput{
		Page:     page,
		Limit:    limit,
		AuthorID: uid,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success:    true,
		Data:       result.Blogs,
		Pagination: result.Pagination,
	})
}

// GetBlog handles GET /api/blogs/:id.
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blog, err := s.blogService.Get(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Data:    blog,
	})
}

// UpdateBlog handles PUT /api/blogs/:id.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req updateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.Update(c.UserContext(), actor, id, service.UpdateBlogInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Blog updated successfully",
		Data:    blog,
	})
}

// DeleteBlog handles DELETE /api/blogs/:id.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.blogService.Delete(c.UserContext(), actor, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Blog deleted successfully",
	})
}

// LikeBlog handles POST /api/blogs/:id/like.
func (s *Server) LikeBlog(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blog, err := s.blogService.Like(c.UserContext(), actor, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Blog liked",
		Data:    blog,
	})
}

// UnlikeBlog handles DELETE /api/blogs/:id/like.
func (s *Server) UnlikeBlog(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blog, err := s.blogService.Unlike(c.UserContext(), actor, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Blog unliked",
		Data:    blog,
	})
}
