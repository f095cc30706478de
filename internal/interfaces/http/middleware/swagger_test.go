package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/painless/shop/internal/infrastructure/config"
)

// swaggerStatus sends the request through a proxy at 192.0.2.1 that is trusted to set X-Forwarded-For
func swaggerStatus(cfg config.SwaggerConfig, forwardedFor string) int {
	return swaggerStatusFrom(cfg, "192.0.2.1:1234", forwardedFor, "192.0.2.1")
}

func swaggerStatusFrom(cfg config.SwaggerConfig, remote, forwardedFor string, trustedProxies ...string) int {
	router := gin.New()
	router.Use(ClientIP(trustedProxies...))
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remote
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestSwaggerProtection(t *testing.T) {
	restricted := config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "192.168.1.100", "not-an-ip"}}

	tests := []struct {
		name     string
		cfg      config.SwaggerConfig
		ip       string
		expected int
	}{
		{"disabled", config.SwaggerConfig{Enabled: false}, "", http.StatusNotFound},
		{"enabled without allowlist", config.SwaggerConfig{Enabled: true}, "203.0.113.9", http.StatusOK},
		{"cidr match", restricted, "10.20.30.40", http.StatusOK},
		{"exact match", restricted, "192.168.1.100", http.StatusOK},
		{"outside allowlist", restricted, "203.0.113.9", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, swaggerStatus(tt.cfg, tt.ip))
		})
	}
}

func TestSwaggerProtection_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}

	assert.Equal(t, http.StatusForbidden, swaggerStatusFrom(cfg, "203.0.113.9:443", "10.1.1.1"))
	assert.Equal(t, http.StatusForbidden, swaggerStatusFrom(cfg, "203.0.113.9:443", "10.1.1.1", "198.51.100.0/24"))
	assert.Equal(t, http.StatusOK, swaggerStatusFrom(cfg, "10.2.2.2:443", ""))
	assert.Equal(t, http.StatusOK, swaggerStatusFrom(cfg, "203.0.113.9:443", "10.1.1.1", "203.0.113.9"))
}
