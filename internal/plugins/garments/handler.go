package garments

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eccearchive/ecce/internal/apperror"
	"github.com/eccearchive/ecce/internal/plugins/auth"
)

// defaultRandomCount is used when the random endpoint gets no count
// parameter. The homepage scene shows three garments.
const defaultRandomCount = 3

// Handler handles HTTP requests for garment reads. Fetch failures are
// never surfaced as blocking errors: the showcase must stay usable when
// the CMS is down, so list-shaped endpoints degrade to an empty list.
type Handler struct {
	service GarmentService
}

// NewHandler creates a new garments handler with the given service.
func NewHandler(service GarmentService) *Handler {
	return &Handler{service: service}
}

// listResponse wraps a garment list. A top-level object (not a bare
// array) leaves room to add fields without breaking clients.
type listResponse struct {
	Garments []GarmentView `json:"garments"`
}

// List returns all garments (GET /api/garments).
func (h *Handler) List(c echo.Context) error {
	views, err := h.service.List(c.Request().Context(), auth.IsPrivileged(c))
	if err != nil {
		slog.Error("garment list unavailable", slog.Any("error", err))
		views = []GarmentView{}
	}
	return c.JSON(http.StatusOK, listResponse{Garments: views})
}

// Random returns a random selection (GET /api/garments/random?count=3&exclude=a,b).
func (h *Handler) Random(c echo.Context) error {
	count := defaultRandomCount
	if raw := c.QueryParam("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.NewBadRequest("count must be an integer")
		}
		count = parsed
	}

	var exclude []string
	if raw := c.QueryParam("exclude"); raw != "" {
		exclude = strings.Split(raw, ",")
	}

	views, err := h.service.SelectRandom(c.Request().Context(), count, exclude, auth.IsPrivileged(c))
	if err != nil {
		slog.Error("random garment selection unavailable", slog.Any("error", err))
		views = []GarmentView{}
	}
	return c.JSON(http.StatusOK, listResponse{Garments: views})
}

// GetBySlug returns one garment (GET /api/garments/:slug).
func (h *Handler) GetBySlug(c echo.Context) error {
	slug := c.Param("slug")

	view, err := h.service.GetBySlug(c.Request().Context(), slug, auth.IsPrivileged(c))
	if err != nil {
		// No list, no lookup. The front end treats this the same as a
		// bad link; the cause is only interesting in the logs.
		slog.Error("garment lookup unavailable",
			slog.String("slug", slug),
			slog.Any("error", err),
		)
		return apperror.NewNotFound("garment not found")
	}
	if view == nil {
		return apperror.NewNotFound("garment not found")
	}
	return c.JSON(http.StatusOK, view)
}

// GetManyBySlugs returns garments for an ordered slug list
// (GET /api/garments/batch?slugs=a,b,c).
func (h *Handler) GetManyBySlugs(c echo.Context) error {
	raw := c.QueryParam("slugs")
	if raw == "" {
		return apperror.NewBadRequest("slugs parameter is required")
	}
	slugs := strings.Split(raw, ",")

	views, err := h.service.GetManyBySlugs(c.Request().Context(), slugs, auth.IsPrivileged(c))
	if err != nil {
		slog.Error("garment batch lookup unavailable", slog.Any("error", err))
		views = []GarmentView{}
	}
	return c.JSON(http.StatusOK, listResponse{Garments: views})
}
