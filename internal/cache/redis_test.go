package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := InitRedis(mr.Addr())
	require.NotNil(t, rdb)
	assert.Same(t, rdb, GetClient())
	require.NoError(t, Close())
	assert.Nil(t, GetClient())

	rdb = InitRedis("redis://" + mr.Addr() + "/0")
	require.NotNil(t, rdb)
	require.NoError(t, Close())

	assert.Nil(t, InitRedis(""))
	assert.Nil(t, InitRedis("redis://%zz"))
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr)
	assert.Error(t, err)
}

func TestRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	revoked, err := IsRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, rdb, "abc", time.Minute))
	revoked, err = IsRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("blacklist:abc"))

	mr.FastForward(2 * time.Minute)
	revoked, err = IsRevoked(ctx, rdb, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Without a client there is nothing to consult.
	require.NoError(t, RevokeToken(ctx, nil, "abc", time.Minute))
	revoked, err = IsRevoked(ctx, nil, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}
