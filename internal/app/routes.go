package app

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eccearchive/ecce/internal/middleware"
	"github.com/eccearchive/ecce/internal/plugins/auth"
	"github.com/eccearchive/ecce/internal/plugins/garments"
)

// RegisterRoutes wires the plugins together and registers all routes.
// This is the single place where the dependency graph is assembled: the
// auth gate reads credentials from the CMS, the garments repository reads
// records from the CMS through the Redis cache, and the garments routes
// consult the session middleware for redaction.
func (a *App) RegisterRoutes() {
	e := a.Echo

	production := !a.Config.IsDevelopment() &&
		!strings.HasPrefix(a.Config.BaseURL, "http://localhost")

	// --- Auth gate ---
	codec := auth.NewTokenCodec(a.Config.Session.SecretKey)
	authService := auth.NewAuthService(auth.NewCMSCredentialSource(a.CMS), codec, a.Config.Session.TTL)
	authHandler := auth.NewHandler(authService, production, a.Config.Session.TTL)
	auth.RegisterRoutes(e, authHandler)

	// --- Garments ---
	repo := garments.NewCachedRepository(a.CMS, a.Redis, a.Config.Cache.GarmentTTL)
	garmentService := garments.NewGarmentService(repo)
	garmentHandler := garments.NewHandler(garmentService)
	garments.RegisterRoutes(e, garmentHandler, auth.WithSession(authService, production))

	// --- Operational endpoints ---

	// Health check endpoint for Docker health monitoring. Redis is the
	// only dependency we own; the CMS being down is survivable (stale
	// cache) and must not flip the instance unhealthy.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	e.GET("/metrics", middleware.MetricsHandler())
}
