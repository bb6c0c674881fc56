package transcache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the translation cache with Redis. TTL of zero means
// entries never expire, which matches the append-only contract.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{Client: redis.NewClient(opt), TTL: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Put(ctx context.Context, key, value string) error {
	return c.Client.Set(ctx, key, value, c.TTL).Err()
}
