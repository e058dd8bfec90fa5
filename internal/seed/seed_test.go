package seed

import (
	"testing"

	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastOptions() FactoryOptions {
	return FactoryOptions{MaxDays: 30, HashCost: bcrypt.MinCost}
}

func TestSeeder_Seed(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := NewSeeder(db, fastOptions())

	res, err := s.Seed(Options{NumUsers: 4, NumPosts: 10, NumComments: 15})
	require.NoError(t, err)
	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Posts, 10)
	assert.Equal(t, 15, res.Comments)

	var users, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(10), posts)
	assert.Equal(t, int64(15), comments)

	for _, p := range res.Posts {
		assert.NotZero(t, p.ID)
		assert.NotNil(t, p.UserID)
		assert.LessOrEqual(t, len([]rune(p.Title)), 100)
		assert.False(t, p.UpdatedAt.Before(p.CreatedAt))
	}

	// Seeded users can log in with the shared password.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Users[0].Password), []byte(DefaultPassword)))
}

func TestSeeder_OrphanedPosts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := NewSeeder(db, fastOptions())

	res, err := s.Seed(Options{NumUsers: 1, NumPosts: 3, OrphanRatio: 1})
	require.NoError(t, err)
	for _, p := range res.Posts {
		assert.Nil(t, p.UserID)
	}
}

func TestSeeder_CleanRemovesExistingData(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s := NewSeeder(db, fastOptions())

	_, err := s.Seed(Options{NumUsers: 2, NumPosts: 2, NumComments: 2})
	require.NoError(t, err)
	_, err = s.Seed(Options{NumUsers: 1, NumPosts: 1, ShouldClean: true})
	require.NoError(t, err)

	var users, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), posts)
	assert.Zero(t, comments)
}

func TestSeeder_NoUsersCreatesNothing(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	res, err := NewSeeder(db, fastOptions()).Seed(Options{NumPosts: 5, NumComments: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
	assert.Zero(t, res.Comments)
}

func TestFactory_CreateCommentDatedAfterPost(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := NewFactory(db, fastOptions())

	user, err := f.CreateUser(func(u *models.User) { u.Username = "alice"; u.Email = "alice@example.com" })
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	post, err := f.CreatePost(user)
	require.NoError(t, err)
	comment, err := f.CreateComment(user, post)
	require.NoError(t, err)
	assert.False(t, comment.CreatedAt.Before(post.CreatedAt))
	assert.Equal(t, post.ID, comment.PostID)
}
