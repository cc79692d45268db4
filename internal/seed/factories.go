// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every generated account gets.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rand: rand.New(rand.NewSource(seed))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	user := &models.User{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		Password:     string(hashed),
		Role:         models.RoleUser,
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildBlog constructs a blog with generated content and a created_at spread
// over the past maxDays, without persisting it.
func (f *Factory) BuildBlog(author *models.User, maxDays int) *models.Blog {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rand.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rand.Intn(24))*time.Hour +
		time.Duration(f.rand.Intn(60))*time.Minute

	return &models.Blog{
		Title:     gofakeit.Sentence(6),
		Content:   gofakeit.Paragraph(3, 5, 8, "\n\n"),
		AuthorID:  author.ID,
		Published: true,
		CreatedAt: time.Now().Add(-back),
	}
}

// CreateBlogsBatch persists multiple blogs in a single DB call.
func (f *Factory) CreateBlogsBatch(blogs []*models.Blog) error {
	if len(blogs) == 0 {
		return nil
	}
	return f.db.Create(&blogs).Error
}

// CreateComment persists a generated comment by user on blog.
func (f *Factory) CreateComment(user *models.User, blog *models.Blog) (*models.Comment, error) {
	comment := &models.Comment{
		BlogID: blog.ID,
		UserID: user.ID,
		Text:   gofakeit.Sentence(12),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like by user on blog, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, blog *models.Blog) error {
	return f.db.Exec(
		"INSERT INTO likes (user_id, blog_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (user_id, blog_id) DO NOTHING",
		user.ID, blog.ID,
	).Error
}
