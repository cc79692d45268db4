package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Text string `json:"text"`
}

// CreateComment handles POST /api/blogs/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blogID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	thread, err := s.commentService.Add(c.UserContext(), actor, service.AddCommentInput{
		BlogID: blogID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Response{
		Success: true,
		Message: "Comment added successfully",
		Data:    thread,
	})
}

// DeleteComment handles DELETE /api/blogs/:id/comments/:commentId.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	actor, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	blogID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	count, err := s.commentService.Delete(c.UserContext(), actor, blogID, commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Comment deleted successfully",
		Data:    fiber.Map{"comments": count},
	})
}
