package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKey = "pricing:current"
	cacheTTL = 5 * time.Minute
)

// Cache holds the current price between reads.
type Cache interface {
	Get(ctx context.Context) (Pricing, bool, error)
	Set(ctx context.Context, p Pricing) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client, ttl: cacheTTL}
}

func (c *RedisCache) Get(ctx context.Context) (Pricing, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Pricing{}, false, nil
	}
	if err != nil {
		return Pricing{}, false, fmt.Errorf("redis get %s: %w", cacheKey, err)
	}
	var p Pricing
	if err := json.Unmarshal(raw, &p); err != nil {
		return Pricing{}, false, fmt.Errorf("decode cached pricing: %w", err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, p Pricing) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, cacheKey).Err()
}
