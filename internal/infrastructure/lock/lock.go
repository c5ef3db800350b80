// Package lock serializes work per key, in process or across instances via redis.
package lock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/config"
)

// Locker acquires an exclusive lock on key, blocking until it is free or ctx is done.
// The returned unlock func is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// New builds the locker selected by cfg.Driver. closeFn releases driver resources.
func New(cfg config.LockConfig, logger *zap.Logger) (locker Locker, closeFn func() error, err error) {
	switch cfg.Driver {
	case "", config.LockDriverMemory:
		logger.Info("Using in-process payment lock")
		return NewMemoryLocker(), func() error { return nil }, nil
	case config.LockDriverRedis:
		client, err := NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis payment lock", zap.String("addr", cfg.Redis.Addr))
		return NewRedisLocker(client, RedisOptions{
			KeyPrefix:     cfg.Redis.KeyPrefix,
			TTL:           cfg.TTL,
			RetryInterval: cfg.RetryInterval,
		}, logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported lock driver: %s", cfg.Driver)
	}
}
