// Package redisx wraps the go-redis client behind the small key-value
// surface the application consumes.
package redisx

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	DB       int
	Password string
}

// Cache is a thin wrapper over a Redis client. A nil result with a nil
// error from Get means the key is absent.
type Cache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates a Cache for the given Redis server.
func New(cfg Config, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	return &Cache{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.logger.Error("ping failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close releases the client's resources.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("get failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, err
	}
	return b, nil
}

// Set stores the value under key with the given TTL. A zero TTL means no
// expiry.
func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.logger.Warn("set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Delete removes the given keys. Deleting absent keys is not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("delete failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Incr atomically increments the counter stored under key, creating it at
// zero first when absent, and returns the new value.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		c.logger.Warn("incr failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return 0, err
	}
	return n, nil
}
