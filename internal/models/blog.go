package models

import (
	"time"

	"gorm.io/gorm"
)

// Validation limits for blog fields.
const (
	MaxTitleLen   = 200
	MaxCommentLen = 500
)

// Blog represents a published (or draft) article. The author reference is
// immutable after creation. Like and comment counts are never stored; they are
// computed by correlated subqueries at read time.
type Blog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	AuthorID  uint   `gorm:"not null;index:idx_author_created" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"author"`
	Published bool   `gorm:"not null;default:true" json:"published"`
	Views     uint   `gorm:"not null;default:0" json:"views"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this blog (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `gorm:"index:idx_author_created" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BlogPayload is the client-facing projection of a Blog. Field names follow
// the public API contract: "likes" and "comments" carry counts, "commentsList"
// the embedded comment payloads.
type BlogPayload struct {
	ID           uint             `json:"id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Author       AuthorPayload    `json:"author"`
	Likes        int              `json:"likes"`
	Comments     int              `json:"comments"`
	Views        uint             `json:"views"`
	Published    bool             `json:"published"`
	IsLiked      bool             `json:"isLiked"`
	CommentsList []CommentPayload `json:"commentsList,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Payload returns the client-facing projection of the blog. Comments are
// attached separately by callers that load them.
func (b *Blog) Payload() BlogPayload {
	return BlogPayload{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		Author:    b.Author.AuthorRef(),
		Likes:     b.LikesCount,
		Comments:  b.CommentsCount,
		Views:     b.Views,
		Published: b.Published,
		IsLiked:   b.Liked,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
