package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCounterStore returns a Redis store when client is set, otherwise an in-memory one
func NewCounterStore(client *redis.Client, logger *zap.Logger) CounterStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client != nil {
		logger.Info("using Redis counter store")
		return NewRedisCounterStore(client, defaultKeyPrefix)
	}
	logger.Warn("Redis disabled, using in-memory counter store. " +
		"Login attempts and throttle counters are not shared between instances.")
	return NewInMemoryCounterStore()
}
