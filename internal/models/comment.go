package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to exactly one blog and has no lifecycle of its own: it is
// created through its blog and removed either explicitly or together with the
// blog.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BlogID    uint           `gorm:"not null;index" json:"blog_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Text      string         `gorm:"not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentPayload is the client-facing projection of a Comment.
type CommentPayload struct {
	ID        uint          `json:"id"`
	User      AuthorPayload `json:"user"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Payload returns the client-facing projection of the comment. The author's
// email is withheld; comment responses expose only name and profile image.
func (c *Comment) Payload() CommentPayload {
	author := c.User.AuthorRef()
	author.Email = ""
	return CommentPayload{
		ID:        c.ID,
		User:      author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// CommentPayloads maps a comment slice into payloads, preserving order.
func CommentPayloads(comments []*Comment) []CommentPayload {
	out := make([]CommentPayload, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Payload())
	}
	return out
}
