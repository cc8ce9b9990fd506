// Package snapshot implements an optional durable cache of the last
// published series snapshot, adapted from the teacher's
// cache.LeaderboardCache: it lets an operator dashboard reconnect
// mid-series and fetch the last state instead of only receiving live
// websocket pushes.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/bmstu-itstech/botarena/internal/config"
	"github.com/bmstu-itstech/botarena/pkg/logger"
	"github.com/bmstu-itstech/botarena/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache wraps a Redis client with the handful of operations the
// snapshot store needs, plus structured logging and cache hit/miss
// metrics.
type Cache struct {
	client  *redis.Client
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New connects to Redis per cfg, verifying reachability with one Ping.
func New(cfg config.RedisConfig, log *logger.Logger, m *metrics.Metrics) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected for snapshot cache", zap.String("addr", cfg.Address()))
	return &Cache{client: client, log: log, metrics: m}, nil
}

// Get returns the raw value stored at key, or "" on a cache miss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.metrics.RecordCacheMiss("get")
		return "", nil
	}
	if err != nil {
		c.log.LogError("redis GET failed", err, zap.String("key", key))
		return "", err
	}
	c.metrics.RecordCacheHit("get")
	return val, nil
}

// Set stores value at key with ttl.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.LogError("redis SET failed", err, zap.String("key", key))
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
