package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "blacklist:"

// RevokedKey is the key marking a session token id as revoked.
func RevokedKey(jti string) string {
	return revokedPrefix + jti
}

// RevokeToken marks jti revoked until ttl elapses. A nil client or non-positive ttl is a no-op.
func RevokeToken(ctx context.Context, rdb *redis.Client, jti string, ttl time.Duration) error {
	if rdb == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, RevokedKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked. A nil client means nothing is revoked.
func IsRevoked(ctx context.Context, rdb *redis.Client, jti string) (bool, error) {
	if rdb == nil || jti == "" {
		return false, nil
	}
	err := rdb.Get(ctx, RevokedKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
