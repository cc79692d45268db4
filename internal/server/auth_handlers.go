package server

import (
	"encoding/json"
	"net/url"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, signed, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Response{
		Success: true,
		Message: "User registered successfully",
		Token:   signed,
		User:    user.Payload(),
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, signed, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Login successful",
		Token:   signed,
		User:    user.Payload(),
	})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		User:    user.Payload(),
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless bearer
// tokens, so logout only acknowledges; the client discards the token.
func (s *Server) Logout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.Response{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GoogleLogin handles GET /api/auth/google. It stores a state nonce and
// redirects the browser to Google's consent screen.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()
	cache.StoreOAuthState(c.UserContext(), state)
	return c.Redirect(s.oauthProvider.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback. On success the
// browser is redirected to the frontend callback URL carrying the session
// token and user payload; on failure to the frontend login page with an
// error code.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if errCode := c.Query("error"); errCode != "" {
		return s.redirectLoginError(c, "access_denied")
	}

	state := c.Query("state")
	if state == "" || !cache.ConsumeOAuthState(c.UserContext(), state) {
		return s.redirectLoginError(c, "invalid_state")
	}

	code := c.Query("code")
	if code == "" {
		return s.redirectLoginError(c, "missing_code")
	}

	profile, err := s.oauthProvider.Exchange(c.UserContext(), code)
	if err != nil {
		Logger.Error("google oauth exchange failed", "error", err)
		return s.redirectLoginError(c, "oauth_failed")
	}

	user, signed, err := s.authService.OAuthSignIn(c.UserContext(), profile)
	if err != nil {
		Logger.Error("google oauth sign-in failed", "error", err)
		return s.redirectLoginError(c, "oauth_failed")
	}

	userJSON, err := json.Marshal(user.Payload())
	if err != nil {
		return s.redirectLoginError(c, "oauth_failed")
	}

	redirect := s.config.FrontendURL + "/auth/callback?token=" +
		url.QueryEscape(signed) + "&user=" + url.QueryEscape(string(userJSON))
	return c.Redirect(redirect, fiber.StatusTemporaryRedirect)
}

func (s *Server) redirectLoginError(c *fiber.Ctx, code string) error {
	return c.Redirect(s.config.FrontendURL+"/login?error="+url.QueryEscape(code),
		fiber.StatusTemporaryRedirect)
}
