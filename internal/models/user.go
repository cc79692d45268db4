// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Password holds the bcrypt hash and is
// never serialized; it is empty for accounts created through an OAuth provider.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `json:"-"`
	Role         string         `gorm:"not null;default:user" json:"role"`
	ProfileImage string         `json:"profileImage,omitempty"`
	GoogleID     string         `gorm:"index" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPayload is the client-facing projection of a User.
type UserPayload struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Payload returns the client-facing projection of the user.
func (u *User) Payload() UserPayload {
	return UserPayload{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}

// AuthorPayload is the author projection embedded in blog responses.
type AuthorPayload struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// AuthorRef returns the author projection of the user.
func (u *User) AuthorRef() AuthorPayload {
	return AuthorPayload{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}
