// Package router wires HTTP routes to handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-account-service/internal/handler"
	"github.com/iliyamo/user-account-service/internal/middleware"
	"github.com/iliyamo/user-account-service/internal/token"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Login, refresh and
// the password-reset pair are public; logout requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, codec *token.Codec) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/logout", a.Logout, middleware.AccessAuth(codec))
}

// RegisterUsers registers the profile CRUD endpoints. Registration is
// public; everything else sits behind the access-token middleware.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, codec *token.Codec) {
	e.POST("/v1/users", u.Create)

	g := e.Group("/v1/users")
	g.Use(middleware.AccessAuth(codec))
	g.GET("", u.List)
	g.GET("/:id", u.Get)
	g.PATCH("/:id", u.Update)
	g.DELETE("/:id", u.Delete)
}
