// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"scribe/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "scribe-demo-2024"

// FactoryOptions tunes generated data.
type FactoryOptions struct {
	// MaxDays bounds how far in the past post timestamps are spread.
	MaxDays int
	// HashCost is the bcrypt cost for seeded passwords; zero means bcrypt.DefaultCost.
	HashCost int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	rnd  *rand.Rand
	hash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(seed))}
}

// passwordHash hashes DefaultPassword once per factory.
func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), f.opts.HashCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	username := strings.ToLower(fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)))
	name := gofakeit.Name()
	user := &models.User{
		Username: username,
		Email:    username + "@" + gofakeit.DomainName(),
		Name:     &name,
		Password: hash,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for user with a creation time spread over the
// last MaxDays days, but does not persist it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(gofakeit.Sentence(f.rnd.Intn(5)+3), ".")
	if r := []rune(title); len(r) > 100 {
		title = string(r[:100])
	}
	created := f.pastTime()
	post := &models.Post{
		Title:     title,
		Text:      gofakeit.Paragraph(f.rnd.Intn(3)+1, 4, 12, "\n\n"),
		CreatedAt: created,
		UpdatedAt: created,
	}
	if user != nil {
		post.UserID = &user.ID
	}
	// A share of posts has been edited after publication.
	if f.rnd.Intn(4) == 0 {
		post.UpdatedAt = created.Add(time.Duration(f.rnd.Intn(48)+1) * time.Hour)
		if post.UpdatedAt.After(time.Now()) {
			post.UpdatedAt = time.Now()
		}
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(&posts, 100).Error
}

// CreateComment constructs and persists a sample comment on post authored by user.
// The comment is dated between the post's creation and now.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	created := post.CreatedAt
	if span := time.Since(post.CreatedAt); span > 0 {
		created = post.CreatedAt.Add(time.Duration(f.rnd.Int63n(int64(span))))
	}
	comment := &models.Comment{
		Text:      gofakeit.Sentence(f.rnd.Intn(12) + 4),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) pastTime() time.Time {
	daysBack := f.rnd.Intn(f.opts.MaxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
