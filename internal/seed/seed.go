package seed

import (
	"fmt"
	"log"

	"scribe/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
	// OrphanRatio is the share of posts written without an author, in [0,1].
	OrphanRatio float64
	Factory     FactoryOptions
}

// Result summarizes what a seeding run created.
type Result struct {
	Users    []*models.User
	Posts    []*models.Post
	Comments int
}

// Seeder populates the database with demo users, posts and comments.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts FactoryOptions) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes every comment, post and user.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Seed creates users, then posts authored by them, then comments spread over the posts.
func (s *Seeder) Seed(opts Options) (*Result, error) {
	log.Printf("🌱 Seeding %d users, %d posts, %d comments...", opts.NumUsers, opts.NumPosts, opts.NumComments)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	res := &Result{}
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		res.Users = append(res.Users, user)
	}
	log.Printf("✓ %d users created", len(res.Users))

	if len(res.Users) == 0 {
		return res, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		var author *models.User
		if s.factory.rnd.Float64() >= opts.OrphanRatio {
			author = res.Users[s.factory.rnd.Intn(len(res.Users))]
		}
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	res.Posts = posts
	log.Printf("✓ %d posts created", len(posts))

	if len(posts) == 0 {
		return res, nil
	}
	for i := 0; i < opts.NumComments; i++ {
		user := res.Users[s.factory.rnd.Intn(len(res.Users))]
		post := posts[s.factory.rnd.Intn(len(posts))]
		if _, err := s.factory.CreateComment(user, post); err != nil {
			return nil, fmt.Errorf("failed to create comments: %w", err)
		}
		res.Comments++
	}
	log.Printf("✓ %d comments created", res.Comments)

	return res, nil
}
