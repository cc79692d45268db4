package server

import (
	"strconv"

	"quill/internal/models"
	"quill/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Logger is the structured logger for handler-level events.
var Logger = observability.GlobalLogger

// currentUserID returns the authenticated user id from locals, or 0 for an
// anonymous request.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// currentUser loads the authenticated user. Handlers behind AuthRequired can
// rely on the id being present; a missing row means the account was deleted
// after the token was issued.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	uid := currentUserID(c)
	if uid == 0 {
		return nil, models.NewAuthenticationError("Authentication required")
	}
	user, err := s.userRepo.GetByID(c.UserContext(), uid)
	if err != nil {
		if models.StatusOf(err) == fiber.StatusNotFound {
			return nil, models.NewAuthenticationError("Account no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// parseIDParam parses a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// parsePagination reads the page and limit query parameters, substituting
// defaults for absent or malformed values.
func parsePagination(c *fiber.Ctx) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
