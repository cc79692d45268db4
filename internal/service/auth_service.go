// Package service contains the application's business logic, between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"net/mail"
	"strings"

	"quill/internal/models"
	"quill/internal/oauth"
	"quill/internal/observability"
	"quill/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// Login failures are reported with a single message so a caller cannot
// probe which emails are registered.
const invalidCredentialsMessage = "Invalid email or password"

const minPasswordLen = 6

// RegisterInput carries the fields of a local registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries local login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService implements registration, login, and OAuth sign-in.
type AuthService struct {
	users  UserStore
	issuer *token.Issuer
}

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, issuer *token.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register creates a local account and returns the user with a fresh session
// token. The email must not already be registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)

	if name == "" || email == "" || input.Password == "" {
		return nil, "", models.NewValidationError("Name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", models.NewValidationError("Invalid email address")
	}
	if len(input.Password) < minPasswordLen {
		return nil, "", models.NewValidationError("Password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		observability.AuthAttempts.WithLabelValues("register", "failure").Inc()
		return nil, "", err
	}

	signed, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.AuthAttempts.WithLabelValues("register", "success").Inc()
	return user, signed, nil
}

// Login verifies local credentials and returns the user with a session token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, "", models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Password == "" {
		observability.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, "", models.NewAuthenticationError(invalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		observability.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, "", models.NewAuthenticationError(invalidCredentialsMessage)
	}

	signed, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.AuthAttempts.WithLabelValues("login", "success").Inc()
	return user, signed, nil
}

// GetUser resolves the authenticated user by id.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// OAuthSignIn upserts an account from an external profile and returns the
// user with a session token. An existing account with a matching email is
// linked to the provider id; otherwise a new passwordless account is created.
func (s *AuthService) OAuthSignIn(ctx context.Context, profile *oauth.Profile) (*models.User, string, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, "", models.NewExternalAuthError(nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		user = &models.User{
			Name:         strings.TrimSpace(profile.Name),
			Email:        email,
			Role:         models.RoleUser,
			GoogleID:     profile.ID,
			ProfileImage: profile.Picture,
		}
		if user.Name == "" {
			user.Name = email
		}
		if err := s.users.Create(ctx, user); err != nil {
			observability.AuthAttempts.WithLabelValues("google", "failure").Inc()
			return nil, "", err
		}
	} else if user.GoogleID == "" {
		user.GoogleID = profile.ID
		if user.ProfileImage == "" {
			user.ProfileImage = profile.Picture
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, "", err
		}
	}

	signed, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.AuthAttempts.WithLabelValues("google", "success").Inc()
	return user, signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
