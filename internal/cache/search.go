package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	searchGenerationKey = "jobh:search:gen"
	searchKeyPrefix     = "jobh:search"
	defaultSearchTTL    = time.Minute
)

// SearchCache - кэш публичного поиска с версионированием ключей.
// Поколение читается один раз на запрос и передается и в Get, и в Set:
// запись, опоздавшая к Invalidate, уходит в мертвое поколение.
type SearchCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string) ([]byte, bool, error)
	// Set: ttl > 0 ограничивает TTL из конфига сверху
	Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// kv - команды redis, которыми пользуется кэш; *redis.Client им удовлетворяет
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type RedisSearchCache struct {
	client kv
	ttl    time.Duration
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return newRedisSearchCache(client, ttl)
}

func newRedisSearchCache(client kv, ttl time.Duration) *RedisSearchCache {
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}
	return &RedisSearchCache{client: client, ttl: ttl}
}

func (c *RedisSearchCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, searchGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func versionedKey(gen int64, key string) string {
	return fmt.Sprintf("%s:v%d:%s", searchKeyPrefix, gen, key)
}

func (c *RedisSearchCache) Get(ctx context.Context, gen int64, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, versionedKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, versionedKey(gen, key), value, c.effectiveTTL(ttl)).Err()
}

func (c *RedisSearchCache) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < c.ttl {
		return ttl
	}
	return c.ttl
}

func (c *RedisSearchCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, searchGenerationKey).Err()
}

// NoopSearchCache используется без Redis: всегда промах
type NoopSearchCache struct{}

func (NoopSearchCache) Generation(context.Context) (int64, error) {
	return 0, nil
}

func (NoopSearchCache) Get(context.Context, int64, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopSearchCache) Set(context.Context, int64, string, []byte, time.Duration) error {
	return nil
}

func (NoopSearchCache) Invalidate(context.Context) error {
	return nil
}
