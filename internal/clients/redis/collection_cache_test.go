package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

func TestNewCollectionCacheRequiresAddr(t *testing.T) {
	_, err := NewCollectionCache(config.CacheConfig{}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAddrMissing))
}

func TestNewCollectionCacheUnreachable(t *testing.T) {
	_, err := NewCollectionCache(config.CacheConfig{RedisAddr: "127.0.0.1:1"}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestCollectionCacheKeys(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	c := newCollectionCache(rdb, config.CacheConfig{}, logger.Nop())
	assert.Equal(t, "catalog", c.prefix)
	assert.Equal(t, 30*time.Second, c.ttl)
	assert.Equal(t, "catalog:visits:ver", c.versionKey("visits"))
	assert.Equal(t, "catalog:visits:v3:p=0&s=20&q=", c.entryKey("visits", 3, "p=0&s=20&q="))

	custom := newCollectionCache(rdb, config.CacheConfig{Prefix: "x", TTL: time.Minute}, logger.Nop())
	assert.Equal(t, "x:pets:ver", custom.versionKey("pets"))
	assert.Equal(t, time.Minute, custom.ttl)
}

func newTestCache(t *testing.T) (*collectionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return newCollectionCache(rdb, config.CacheConfig{TTL: time.Minute}, logger.Nop()), mr
}

func TestCollectionCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	e, ver, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Zero(t, ver)

	require.NoError(t, c.Set(ctx, "visits", ver, "p=0", &Entry{Body: []byte(`[{"id":"a"}]`), Total: 1}))

	e, ver, err = c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Zero(t, ver)
	assert.JSONEq(t, `[{"id":"a"}]`, string(e.Body))
	assert.Equal(t, int64(1), e.Total)

	other, _, err := c.Get(ctx, "pets", "p=0")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestCollectionCacheInvalidateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "visits", 0, "p=0", &Entry{Body: []byte(`[]`)}))
	require.NoError(t, c.Invalidate(ctx, "visits"))

	e, ver, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Equal(t, int64(1), ver)
}

func TestCollectionCacheSetUnderStaleVersionIsNeverServed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ver, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)

	// A write commits while the read is still loading its snapshot.
	require.NoError(t, c.Invalidate(ctx, "visits"))
	require.NoError(t, c.Set(ctx, "visits", ver, "p=0", &Entry{Body: []byte(`[]`)}))

	e, _, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestCollectionCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(c.entryKey("visits", 0, "p=0"), "{not json"))
	e, ver, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Zero(t, ver)
}

func TestCollectionCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "visits", 0, "p=0", &Entry{Body: []byte(`[]`)}))
	assert.Equal(t, time.Minute, mr.TTL(c.entryKey("visits", 0, "p=0")))

	mr.FastForward(time.Minute + time.Second)
	e, _, err := c.Get(ctx, "visits", "p=0")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestCollectionCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(ctx, "visits", "p=0")
	require.Error(t, err)
	assert.Error(t, c.Invalidate(ctx, "visits"))
	assert.Error(t, c.Ping(ctx))
}
