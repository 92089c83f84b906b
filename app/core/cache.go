package core

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func setupRedis(cfg RedisConfig) redis.UniversalClient {
	if cfg.Cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.ClusterAddrs,
			Password: cfg.ClusterPasswd,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Cache backs the password attempt counters. Keys are namespaced so several
// environments can share one redis.
type Cache struct {
	redis  redis.UniversalClient
	prefix string
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.redis.Get(ctx, c.key(key)).Result()
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.redis.SetEx(ctx, c.key(key), value, expiresAt).Err()
}

func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	return c.redis.Incr(ctx, c.key(key)).Result()
}

func (c *Cache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.redis.Expire(ctx, c.key(key), expiration).Err()
}
