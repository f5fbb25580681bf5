package repositories

import (
	"context"
	"errors"
	"time"

	"catalog-aggregator-backend/utils"

	"github.com/redis/go-redis/v9"
)

// ProductCacheResource prefixes every cached listing key.
const ProductCacheResource = "catalog:products"

type ProductCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Flush(ctx context.Context) (int, error)
	Enabled() bool
}

type redisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProductCache returns a Redis-backed cache, or a no-op cache when rdb is nil or
// the TTL is not positive.
func NewProductCache(rdb *redis.Client, ttl time.Duration) ProductCache {
	if rdb == nil || ttl <= 0 {
		return noopProductCache{}
	}
	return &redisProductCache{rdb: rdb, ttl: ttl}
}

func (c *redisProductCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *redisProductCache) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, key, value, c.ttl).Err()
}

func (c *redisProductCache) Flush(ctx context.Context) (int, error) {
	return utils.InvalidateCache(ctx, c.rdb, ProductCacheResource)
}

func (c *redisProductCache) Enabled() bool { return true }

type noopProductCache struct{}

func (noopProductCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopProductCache) Set(context.Context, string, []byte) error         { return nil }
func (noopProductCache) Flush(context.Context) (int, error)                { return 0, nil }
func (noopProductCache) Enabled() bool                                     { return false }
