package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError represents a classified application error. Status is the HTTP
// status the error maps to at the handler boundary.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewAuthenticationError reports failed credential or token verification.
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusUnauthorized,
		Code:    "AUTHENTICATION_ERROR",
		Message: message,
	}
}

// NewAuthorizationError reports a policy denial for an authenticated actor.
func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: message,
	}
}

// NewNotFoundError reports an absent resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Status:  fiber.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

// NewConflictError reports a state conflict such as a duplicate email or a
// redundant like. The original API surfaces these as 400, not 409.
func NewConflictError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewExternalAuthError reports a failure from the OAuth provider.
func NewExternalAuthError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusBadGateway,
		Code:    "EXTERNAL_AUTH_ERROR",
		Message: "Authentication with the external provider failed",
		Err:     err,
	}
}

// NewInternalError wraps an unclassified error.
func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusOf resolves the HTTP status for an error, defaulting to 500 for
// anything unclassified.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}

// RespondWithError serializes err as the standard failure envelope using the
// status carried by the error.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	message := err.Error()

	var appErr *AppError
	if errors.As(err, &appErr) {
		// Never leak wrapped internals to clients.
		message = appErr.Message
	}

	return c.Status(status).JSON(Response{
		Success: false,
		Message: message,
	})
}
