package ground

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"groundbook/models"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by GroundCache.Get when nothing is cached under the key.
var ErrCacheMiss = errors.New("ground cache miss")

// GroundCache stores ground listings keyed by query.
type GroundCache interface {
	Get(ctx context.Context, key string) ([]models.Ground, error)
	Set(ctx context.Context, key string, grounds []models.Ground) error
	Invalidate(ctx context.Context) error
}

type RedisGroundCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGroundCache(client *redis.Client, ttl time.Duration) GroundCache {
	return &RedisGroundCache{client: client, ttl: ttl}
}

const cacheKeyPrefix = "grounds:list:"

func listKey(key string) string {
	return cacheKeyPrefix + key
}

func (c *RedisGroundCache) Get(ctx context.Context, key string) ([]models.Ground, error) {
	val, err := c.client.Get(ctx, listKey(key)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var grounds []models.Ground
	if err := json.Unmarshal([]byte(val), &grounds); err != nil {
		return nil, err
	}
	return grounds, nil
}

func (c *RedisGroundCache) Set(ctx context.Context, key string, grounds []models.Ground) error {
	data, err := json.Marshal(grounds)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(key), data, c.ttl).Err()
}

// Invalidate drops every cached listing.
func (c *RedisGroundCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
