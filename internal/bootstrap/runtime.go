// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"fmt"
	"log/slog"

	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo content.
	SeedDemo bool
}

// Demo content sizes used by SeedDemo.
const (
	demoUsers    = 5
	demoPosts    = 12
	demoComments = 30
)

// InitRuntime connects to DB and Redis and optionally seeds demo content.
// The returned redis client is nil when Redis is not configured or unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := cache.InitRedis(cfg.RedisURL)

	if opts.SeedDemo {
		if err := seedDemo(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	return db, r, nil
}

func seedDemo(cfg *config.Config, db *gorm.DB) error {
	if cfg.IsProduction() {
		middleware.Logger.Warn("demo seeding skipped in production")
		return nil
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	res, err := seed.NewSeeder(db, seed.FactoryOptions{}).Seed(seed.Options{
		NumUsers:    demoUsers,
		NumPosts:    demoPosts,
		NumComments: demoComments,
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("demo content seeded",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("comments", res.Comments),
	)
	return nil
}
