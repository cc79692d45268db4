package seed

import (
	"errors"
	"log"

	"quill/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin bootstrap defaults. Override the password via flag or environment
// before using in anything but development.
const (
	AdminEmail = "admin@quill.dev"
	AdminName  = "Admin"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all rows from every persistent table. Order matters for
// foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing database...")
	for _, table := range []string{"likes", "comments", "blogs", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates the admin account if it does not exist, or promotes an
// existing account with the admin email. Returns the admin user.
func (s *Seeder) EnsureAdmin(password string) (*models.User, error) {
	var admin models.User
	err := s.db.Where("email = ?", AdminEmail).First(&admin).Error
	if err == nil {
		if admin.Role != models.RoleAdmin {
			admin.Role = models.RoleAdmin
			if err := s.db.Save(&admin).Error; err != nil {
				return nil, err
			}
			log.Printf("Promoted existing account %s to admin", AdminEmail)
		}
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin = models.User{
		Name:     AdminName,
		Email:    AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Created admin account %s", AdminEmail)
	return &admin, nil
}

// SeedDemo populates the database with numUsers readers, numBlogs blogs
// authored by the admin, and a spread of comments and likes.
func (s *Seeder) SeedDemo(admin *models.User, numUsers, numBlogs int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	blogs := make([]*models.Blog, 0, numBlogs)
	for i := 0; i < numBlogs; i++ {
		blogs = append(blogs, s.factory.BuildBlog(admin, 90))
	}
	if err := s.factory.CreateBlogsBatch(blogs); err != nil {
		return err
	}
	log.Printf("Created %d blogs", len(blogs))

	if len(users) == 0 {
		return nil
	}

	comments, likes := 0, 0
	for _, blog := range blogs {
		for _, user := range users {
			if s.factory.rand.Intn(4) == 0 {
				if _, err := s.factory.CreateComment(user, blog); err != nil {
					return err
				}
				comments++
			}
			if s.factory.rand.Intn(2) == 0 {
				if err := s.factory.CreateLike(user, blog); err != nil {
					return err
				}
				likes++
			}
		}
	}
	log.Printf("Created %d comments and %d likes", comments, likes)
	return nil
}
