package account

import (
	"context"
	"time"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/infrastructure/cache"
)

const (
	attemptsKeyPrefix = "login:attempts:"
	blockedKeyPrefix  = "login:blocked:"
)

// CounterLoginGuard keeps login attempts and IP blocks in a counter store
type CounterLoginGuard struct {
	store     cache.CounterStore
	threshold int
	window    time.Duration
}

// NewCounterLoginGuard creates a guard. Failures older than window are forgotten.
func NewCounterLoginGuard(store cache.CounterStore, threshold int, window time.Duration) *CounterLoginGuard {
	if threshold <= 0 {
		threshold = account.DefaultLoginAttemptThreshold
	}
	return &CounterLoginGuard{store: store, threshold: threshold, window: window}
}

// IsActive implements account.LoginGuard
func (g *CounterLoginGuard) IsActive(user *account.User) bool {
	return user != nil && user.IsActive
}

// IsTooManyAttempts implements account.LoginGuard
func (g *CounterLoginGuard) IsTooManyAttempts(ctx context.Context, key string) (bool, error) {
	n, err := g.store.Get(ctx, attemptsKeyPrefix+key)
	if err != nil {
		return false, err
	}
	return n >= int64(g.threshold), nil
}

// RegisterFailure implements account.LoginGuard
func (g *CounterLoginGuard) RegisterFailure(ctx context.Context, key string) (int64, error) {
	n, _, err := g.store.Incr(ctx, attemptsKeyPrefix+key, g.window)
	return n, err
}

// ResetAttempts implements account.LoginGuard
func (g *CounterLoginGuard) ResetAttempts(ctx context.Context, key string) error {
	return g.store.Delete(ctx, attemptsKeyPrefix+key)
}

// BlockIP implements account.LoginGuard
func (g *CounterLoginGuard) BlockIP(ctx context.Context, ip string, duration time.Duration) error {
	return g.store.SetFlag(ctx, blockedKeyPrefix+ip, duration)
}

// IsBlocked implements account.LoginGuard
func (g *CounterLoginGuard) IsBlocked(ctx context.Context, ip string) (bool, time.Duration, error) {
	ttl, err := g.store.TTL(ctx, blockedKeyPrefix+ip)
	if err != nil {
		return false, 0, err
	}
	return ttl > 0, ttl, nil
}

var _ account.LoginGuard = (*CounterLoginGuard)(nil)
