package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.Prefix())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterPublicPaths(t *testing.T) {
	noop := func(c *gin.Context) {}
	account := NewDomainGroup("account", "/account")
	account.HandlePublic(http.MethodPost, "/jwt/", noop)
	account.POST("/logout/", noop)
	account.Group("open", "/open").HandlePublic(http.MethodGet, "/ping", noop)

	r := NewRouter(gin.New(), WithAPIVersion("v2")).Register(account)

	assert.Equal(t, []string{"/api/v2/account/jwt/", "/api/v2/account/open/ping"}, r.PublicPaths())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("account", "/account")
		assert.Equal(t, "account", g.Name())
		assert.Equal(t, "/account", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("/item", ok).POST("/item", ok).PUT("/item", ok).PATCH("/item", ok).DELETE("/item", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/item", nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
	})

	t.Run("subgroup inherits middleware", func(t *testing.T) {
		engine := gin.New()
		parent := NewDomainGroup("account", "/account").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusTeapot)
		})
		parent.Group("admin", "/admin").GET("/users/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		parent.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/account/admin/users/", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}
