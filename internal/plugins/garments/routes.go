package garments

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the garment routes. The session middleware is
// passed in (not imported) so this plugin stays decoupled from how
// sessions are decoded; it only reads privilege from the context.
//
// Route order matters: /random and /batch must be registered before
// /:slug or Echo would capture them as slugs.
func RegisterRoutes(e *echo.Echo, h *Handler, session echo.MiddlewareFunc) {
	g := e.Group("/api/garments", session)

	g.GET("", h.List)
	g.GET("/random", h.Random)
	g.GET("/batch", h.GetManyBySlugs)
	g.GET("/:slug", h.GetBySlug)
}
