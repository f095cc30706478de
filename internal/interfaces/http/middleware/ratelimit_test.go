package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/painless/shop/internal/domain/shared"
	"github.com/painless/shop/internal/infrastructure/cache"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/i18n"
	"github.com/painless/shop/internal/interfaces/http/dto"
)

func throttleRouter(t *testing.T, anon, user string) *gin.Engine {
	t.Helper()
	store := cache.NewInMemoryCounterStore()
	t.Cleanup(func() { _ = store.Close() })

	cfg, err := NewThrottleConfig(config.HTTPConfig{AnonRate: anon, UserRate: user}, store, nil, zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	router.Use(
		Language(i18n.New(config.I18nConfig{DefaultLanguage: "en", Languages: []string{"en", "fa"}})),
		ClientIP("192.0.2.0/24"),
		func(c *gin.Context) {
			if id := c.GetHeader("X-Test-User"); id != "" {
				c.Set(JWTUserIDKey, id)
			}
		},
		Throttle(cfg),
	)
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func throttledGet(router *gin.Engine, ip, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestThrottle_Anonymous(t *testing.T) {
	router := throttleRouter(t, "2/minute", "10/minute")

	assert.Equal(t, http.StatusOK, throttledGet(router, "203.0.113.1", "").Code)
	w := throttledGet(router, "203.0.113.1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = throttledGet(router, "203.0.113.1", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	body := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeThrottled, body.Code)
	assert.Equal(t, "Bad Request. Expected available in 60 seconds.", body.Detail)

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, throttledGet(router, "203.0.113.2", "").Code)
}

func TestThrottle_UserScopeIgnoresIP(t *testing.T) {
	router := throttleRouter(t, "1/minute", "3/minute")

	for i, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		assert.Equal(t, http.StatusOK, throttledGet(router, ip, "user-1").Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, throttledGet(router, "198.51.100.4", "user-1").Code)
	assert.Equal(t, http.StatusOK, throttledGet(router, "198.51.100.4", "user-2").Code)
}

func TestNewThrottleConfig_InvalidRate(t *testing.T) {
	_, err := NewThrottleConfig(config.HTTPConfig{AnonRate: "lots", UserRate: "1/day"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestAbortThrottled_Persian(t *testing.T) {
	router := gin.New()
	router.Use(Language(i18n.New(config.I18nConfig{DefaultLanguage: "en", Languages: []string{"en", "fa"}})))
	router.GET("/test", func(c *gin.Context) {
		AbortThrottled(c, shared.NewThrottledError(dto.ErrCodeIPBlocked, 1500*time.Millisecond))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Language", "fa-IR")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "fa", w.Header().Get("Content-Language"))
	body := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeIPBlocked, body.Code)
	assert.NotContains(t, body.Detail, "Bad Request")
}
