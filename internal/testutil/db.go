// Package testutil holds shared helpers for package tests.
package testutil

import (
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory SQLite database that lives for the duration of the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dialector, err := database.Dialector(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database; pin the pool to one.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser persists a user with a bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: email, Password: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost persists a post owned by user (nil for an orphaned post) with an explicit creation time.
func CreatePost(t *testing.T, db *gorm.DB, user *models.User, title, text string, created time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Text: text, CreatedAt: created, UpdatedAt: created}
	if user != nil {
		post.UserID = &user.ID
	}
	require.NoError(t, db.Omit("User").Create(post).Error)
	return post
}

// CreateComment persists a comment with an explicit creation time.
func CreateComment(t *testing.T, db *gorm.DB, user *models.User, post *models.Post, text string, created time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{Text: text, UserID: user.ID, PostID: post.ID, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, db.Omit("User", "Post").Create(comment).Error)
	return comment
}
