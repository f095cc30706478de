package router

import (
	"net/http"
	"sort"

	"github.com/painless/shop/internal/interfaces/http/handler"
	"github.com/painless/shop/internal/interfaces/http/middleware"
)

// AccountHandlers groups the handlers served under /account
type AccountHandlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Insights *handler.InsightHandler
}

// NewAccountRoutes builds the /account route group.
// Owner routes require a token; admin routes also require staff.
func NewAccountRoutes(h AccountHandlers) *DomainGroup {
	account := NewDomainGroup("account", "/account")
	account.HandlePublic(http.MethodPost, "/jwt/", h.Auth.ObtainToken)
	account.HandlePublic(http.MethodPost, "/jwt/refresh/", h.Auth.RefreshToken)
	account.HandlePublic(http.MethodPost, "/jwt/verify/", h.Auth.VerifyToken)
	account.HandlePublic(http.MethodPost, "/register/", h.Auth.Register)
	account.POST("/logout/", middleware.RequireAuth(), h.Auth.Logout)
	account.GET("/users/:phone_number/", middleware.RequireAuth(), h.Users.GetUser)

	me := account.Group("me", "/me").Use(middleware.RequireAuth())
	me.GET("/profile/", h.Users.GetProfile)
	me.PUT("/profile/", h.Users.UpdateProfile)

	admin := account.Group("admin", "/admin").Use(middleware.RequireAuth(), middleware.RequireStaff())
	admin.GET("/users/", h.Users.ListUsers)
	admin.PATCH("/users/:id/active", h.Users.SetActive)
	admin.DELETE("/users/:id", h.Users.DeleteUser)

	insights := admin.Group("insights", "/insights")
	routes := h.Insights.Routes()
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		insights.GET("/"+name, routes[name])
	}
	return account
}
