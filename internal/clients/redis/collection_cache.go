package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

var ErrAddrMissing = errors.New("redis address missing")

// Entry is one cached collection response: the encoded body plus the page
// metadata the handler reports in headers.
type Entry struct {
	Body  json.RawMessage `json:"body"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// CollectionCache stores collection pages under a per-resource version.
// A reader that misses must hand the version Get reported back to Set, so a
// page loaded before an Invalidate is never stored under the newer version.
type CollectionCache interface {
	// Get returns a nil entry on a miss, along with the version it looked under.
	Get(ctx context.Context, resource, key string) (*Entry, int64, error)
	Set(ctx context.Context, resource string, version int64, key string, e *Entry) error
	// Invalidate drops every cached page of resource.
	Invalidate(ctx context.Context, resource string) error
	Ping(ctx context.Context) error
	Close() error
}

type collectionCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewCollectionCache(cfg config.CacheConfig, log *logger.Logger) (CollectionCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, ErrAddrMissing
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newCollectionCache(rdb, cfg, log), nil
}

func newCollectionCache(rdb goredis.UniversalClient, cfg config.CacheConfig, log *logger.Logger) *collectionCache {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "catalog"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &collectionCache{
		log:    log.With("service", "RedisCollectionCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *collectionCache) versionKey(resource string) string {
	return c.prefix + ":" + resource + ":ver"
}

func (c *collectionCache) entryKey(resource string, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", c.prefix, resource, version, key)
}

func (c *collectionCache) version(ctx context.Context, resource string) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(resource)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *collectionCache) Get(ctx context.Context, resource, key string) (*Entry, int64, error) {
	ver, err := c.version(ctx, resource)
	if err != nil {
		return nil, 0, fmt.Errorf("cache version: %w", err)
	}
	raw, err := c.rdb.Get(ctx, c.entryKey(resource, ver, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ver, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("cache get: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// A corrupt entry behaves like a miss and is overwritten on the next Set.
		c.log.Warn("discarding undecodable cache entry", "resource", resource, "error", err)
		return nil, ver, nil
	}
	return &e, ver, nil
}

func (c *collectionCache) Set(ctx context.Context, resource string, version int64, key string, e *Entry) error {
	if e == nil {
		return nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.entryKey(resource, version, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the resource version; stale entries expire through their TTL.
func (c *collectionCache) Invalidate(ctx context.Context, resource string) error {
	if err := c.rdb.Incr(ctx, c.versionKey(resource)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *collectionCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *collectionCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
