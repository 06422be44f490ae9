package browse

import (
	"context"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"libris/pkg/catalog"
	"libris/pkg/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedPage is one catalog page as stored in the cache.
type CachedPage struct {
	Books      []domain.Book      `json:"books"`
	Pagination catalog.Pagination `json:"pagination"`
}

// Cache is a read-through page cache keyed by the query's encoded form.
// Implementations must treat every failure as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (CachedPage, bool)
	Set(ctx context.Context, key string, page CachedPage)
}

// RedisCache keeps catalog pages in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache builds a Redis-backed page cache.
func NewRedisCache(addr, password string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl:    ttl,
		prefix: "libris:catalog:",
	}
}

// Get looks a page up; any redis or decode error degrades to a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (CachedPage, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return CachedPage{}, false
	}
	if err != nil {
		slog.Warn("catalog cache get failed", "key", key, "err", err)
		return CachedPage{}, false
	}
	var page CachedPage
	if err := json.UnmarshalFromString(raw, &page); err != nil {
		slog.Warn("catalog cache decode failed", "key", key, "err", err)
		return CachedPage{}, false
	}
	return page, true
}

// Set stores a page; failures are logged and dropped.
func (c *RedisCache) Set(ctx context.Context, key string, page CachedPage) {
	raw, err := json.MarshalToString(page)
	if err != nil {
		slog.Warn("catalog cache encode failed", "key", key, "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set failed", "key", key, "err", err)
	}
}

func (b *Browser) cacheGet(ctx context.Context, key string) (CachedPage, bool) {
	if b.cache == nil {
		return CachedPage{}, false
	}
	return b.cache.Get(ctx, key)
}

func (b *Browser) cacheSet(ctx context.Context, key string, page CachedPage) {
	if b.cache == nil {
		return
	}
	b.cache.Set(ctx, key, page)
}
