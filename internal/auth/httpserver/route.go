package httpserver

import "github.com/labstack/echo/v4"

type Deps struct {
	AuthHandler  *AuthHTTP
	RequireAuth  echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
	// CSRF guards the cookie-authenticated routes. Nil disables the check.
	CSRF echo.MiddlewareFunc
}

func Register(g *echo.Group, d *Deps) {
	h := d.AuthHandler

	var csrf []echo.MiddlewareFunc
	if d.CSRF != nil {
		csrf = append(csrf, d.CSRF)
	}

	auth := g.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/csrf", h.CSRFToken, csrf...)
	auth.POST("/refresh", h.Refresh, csrf...)
	auth.POST("/logout", h.Logout, append([]echo.MiddlewareFunc{d.RequireAuth}, csrf...)...)

	users := g.Group("/users", d.RequireAuth)
	users.GET("", h.ListUsers, d.RequireAdmin)
	users.PUT("/me", h.UpdateProfile)
	users.POST("/me/password", h.ChangePassword)
	users.GET("/:id", h.GetUser)
}
