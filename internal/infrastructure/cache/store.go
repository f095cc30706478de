// Package cache holds the short-lived counters behind login protection and request throttling.
// Redis backs them in multi-instance deployments; an in-memory store serves single instances and tests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// CounterStore keeps expiring counters and flags
type CounterStore interface {
	// Incr adds one to key. The window starts with the first increment and is not extended by later ones.
	// It returns the new count and the time left in the window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)

	// Get returns the current count, 0 when absent
	Get(ctx context.Context, key string) (int64, error)

	// SetFlag marks key as present for ttl
	SetFlag(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the time left on key, 0 when absent
	TTL(ctx context.Context, key string) (time.Duration, error)

	Delete(ctx context.Context, keys ...string) error

	Close() error
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
