package account

import (
	"context"
	"time"
)

// DefaultLoginAttemptThreshold is the number of failed logins after which an IP is blocked
const DefaultLoginAttemptThreshold = 3

// LoginGuard holds the login business rules: who may log in and when an IP gets blocked.
type LoginGuard interface {
	// IsActive reports whether the user may log in at all
	IsActive(user *User) bool

	// IsTooManyAttempts reports whether key has reached the failure threshold
	IsTooManyAttempts(ctx context.Context, key string) (bool, error)

	// RegisterFailure counts one failed attempt for key and returns the new count
	RegisterFailure(ctx context.Context, key string) (int64, error)

	// ResetAttempts forgets the failures counted for key
	ResetAttempts(ctx context.Context, key string) error

	// BlockIP rejects logins from ip for the given duration
	BlockIP(ctx context.Context, ip string, duration time.Duration) error

	// IsBlocked reports whether ip is blocked and for how much longer
	IsBlocked(ctx context.Context, ip string) (bool, time.Duration, error)
}
