package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eccearchive/ecce/internal/middleware"
)

// RegisterRoutes sets up the auth gate routes. All three endpoints are
// public; the session middleware is exported separately for the garments
// routes to use.
//
// Login is rate-limited: role credentials are shared passwords, so brute
// forcing one is cheaper than guessing a personal account password.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/auth")

	g.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	g.POST("/logout", h.Logout)
	g.GET("/session", h.SessionInfo)
}
