package loqus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 15 * time.Minute

// Cache is a shared redis tier for observation answers. All methods are
// best effort: redis failures behave like misses.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache connects the redis cache tier. An empty URL disables caching.
func NewCache(redisURL string) (*Cache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Cache{redis: redis.NewClient(opts), ttl: cacheTTL}, nil
}

func cacheKey(instanceID, path string) string {
	return "loqus:" + instanceID + ":" + path
}

// Get returns a cached answer.
func (c *Cache) Get(ctx context.Context, instanceID, path string) (*Observations, bool) {
	val, err := c.redis.Get(ctx, cacheKey(instanceID, path)).Result()
	if err != nil {
		return nil, false
	}
	obs := &Observations{}
	if err := json.Unmarshal([]byte(val), obs); err != nil {
		c.redis.Del(ctx, cacheKey(instanceID, path))
		return nil, false
	}
	return obs, true
}

// Set stores an answer.
func (c *Cache) Set(ctx context.Context, instanceID, path string, obs *Observations) {
	payload, err := json.Marshal(obs)
	if err != nil {
		return
	}
	c.redis.Set(ctx, cacheKey(instanceID, path), payload, c.ttl)
}
