package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/cache"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/telemetry"
	"github.com/painless/shop/internal/interfaces/http/dto"
)

// Throttle scopes, also used as metric attributes
const (
	ThrottleScopeAnon = "anon"
	ThrottleScopeUser = "user"
)

// ThrottleConfig holds the fixed-window request budgets
type ThrottleConfig struct {
	Store   cache.CounterStore
	Anon    config.Rate
	User    config.Rate
	Metrics *telemetry.AccountMetrics // optional
	Logger  *zap.Logger
}

// NewThrottleConfig parses the configured rates
func NewThrottleConfig(cfg config.HTTPConfig, store cache.CounterStore, metrics *telemetry.AccountMetrics, logger *zap.Logger) (ThrottleConfig, error) {
	anon, err := config.ParseRate(cfg.AnonRate)
	if err != nil {
		return ThrottleConfig{}, err
	}
	user, err := config.ParseRate(cfg.UserRate)
	if err != nil {
		return ThrottleConfig{}, err
	}
	return ThrottleConfig{Store: store, Anon: anon, User: user, Metrics: metrics, Logger: logger}, nil
}

// Throttle limits anonymous clients by IP and authenticated users by user ID.
// It must run after the JWT middleware so authenticated requests are recognized.
func Throttle(cfg ThrottleConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		scope, rate, key := ThrottleScopeAnon, cfg.Anon, GetClientIP(c)
		if userID := GetJWTUserID(c); userID != "" {
			scope, rate, key = ThrottleScopeUser, cfg.User, userID
		}

		ctx := c.Request.Context()
		count, ttl, err := cfg.Store.Incr(ctx, "throttle:"+scope+":"+key, rate.Period)
		if err != nil {
			// store outage: fail open
			cfg.Logger.Error("Throttle counter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rate.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(int64(rate.Requests)-count, 0), 10))

		if count > int64(rate.Requests) {
			cfg.Metrics.RecordThrottled(ctx, scope)
			AbortThrottled(c, shared.NewThrottledError(dto.ErrCodeThrottled, ttl))
			return
		}
		c.Next()
	}
}

// AbortThrottled writes a 429 with Retry-After and the localized wait message
func AbortThrottled(c *gin.Context, err *shared.ThrottledError) {
	seconds := err.Seconds()
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		dto.NewErrorResponse(err.Code, RetryAfterMessage(c, seconds)))
}
