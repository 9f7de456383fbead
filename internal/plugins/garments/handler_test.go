package garments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eccearchive/ecce/internal/apperror"
)

// newGetContext builds an Echo context for a GET with the given query.
func newGetContext(t *testing.T, path string, query url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// decodeList unmarshals a listResponse body.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []GarmentView {
	t.Helper()
	var resp struct {
		Garments []GarmentView `json:"garments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.Garments
}

func TestHandlerList_ReturnsGarments(t *testing.T) {
	h := NewHandler(newTestService(testPool(3)))
	c, rec := newGetContext(t, "/api/garments", nil)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	views := decodeList(t, rec)
	if len(views) != 3 {
		t.Errorf("expected 3 garments, got %d", len(views))
	}
	// No session on the request: research details stay out of the body.
	for _, v := range views {
		if v.Research != nil {
			t.Errorf("garment %s: research details leaked to anonymous caller", v.Slug)
		}
	}
}

func TestHandlerList_DegradesToEmptyList(t *testing.T) {
	h := NewHandler(NewGarmentService(&mockRepository{
		listAllFn: func(ctx context.Context) ([]Garment, error) {
			return nil, errors.New("redis down")
		},
	}))
	c, rec := newGetContext(t, "/api/garments", nil)

	if err := h.List(c); err != nil {
		t.Fatalf("expected degraded 200, got error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if views := decodeList(t, rec); len(views) != 0 {
		t.Errorf("expected empty list, got %d garments", len(views))
	}
}

func TestHandlerRandom_DefaultCount(t *testing.T) {
	h := NewHandler(newTestService(testPool(10)))
	c, rec := newGetContext(t, "/api/garments/random", nil)

	if err := h.Random(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views := decodeList(t, rec); len(views) != defaultRandomCount {
		t.Errorf("expected %d garments, got %d", defaultRandomCount, len(views))
	}
}

func TestHandlerRandom_CountAndExclude(t *testing.T) {
	h := NewHandler(newTestService(testPool(5)))
	c, rec := newGetContext(t, "/api/garments/random", url.Values{
		"count":   {"2"},
		"exclude": {"g1,g2,g3"},
	})

	if err := h.Random(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views := decodeList(t, rec)
	if len(views) != 2 {
		t.Fatalf("expected 2 garments, got %d", len(views))
	}
	set := slugSet(t, views)
	if !set["g4"] || !set["g5"] {
		t.Errorf("expected the non-excluded garments, got %v", slugsOf(views))
	}
}

func TestHandlerRandom_BadCount(t *testing.T) {
	h := NewHandler(newTestService(testPool(5)))
	c, _ := newGetContext(t, "/api/garments/random", url.Values{"count": {"three"}})

	err := h.Random(c)
	if err == nil {
		t.Fatal("expected error for non-integer count")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 AppError, got %v", err)
	}
}

func TestHandlerGetBySlug_Found(t *testing.T) {
	h := NewHandler(newTestService(testPool(3)))
	c, rec := newGetContext(t, "/api/garments/g2", nil)
	c.SetParamNames("slug")
	c.SetParamValues("g2")

	if err := h.GetBySlug(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var view GarmentView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if view.Slug != "g2" {
		t.Errorf("expected slug g2, got %s", view.Slug)
	}
}

func TestHandlerGetBySlug_NotFound(t *testing.T) {
	h := NewHandler(newTestService(testPool(3)))
	c, _ := newGetContext(t, "/api/garments/missing", nil)
	c.SetParamNames("slug")
	c.SetParamValues("missing")

	err := h.GetBySlug(c)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 AppError, got %v", err)
	}
}

func TestHandlerGetBySlug_RepositoryErrorReadsAsNotFound(t *testing.T) {
	h := NewHandler(NewGarmentService(&mockRepository{
		listAllFn: func(ctx context.Context) ([]Garment, error) {
			return nil, errors.New("redis down")
		},
	}))
	c, _ := newGetContext(t, "/api/garments/g1", nil)
	c.SetParamNames("slug")
	c.SetParamValues("g1")

	err := h.GetBySlug(c)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 AppError, got %v", err)
	}
}

func TestHandlerGetManyBySlugs_ReturnsInOrder(t *testing.T) {
	h := NewHandler(newTestService(testPool(5)))
	c, rec := newGetContext(t, "/api/garments/batch", url.Values{"slugs": {"g3,g1"}})

	if err := h.GetManyBySlugs(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views := decodeList(t, rec)
	got := slugsOf(views)
	if len(got) != 2 || got[0] != "g3" || got[1] != "g1" {
		t.Errorf("expected [g3 g1], got %v", got)
	}
}

func TestHandlerGetManyBySlugs_MissingParam(t *testing.T) {
	h := NewHandler(newTestService(testPool(5)))
	c, _ := newGetContext(t, "/api/garments/batch", nil)

	err := h.GetManyBySlugs(c)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 AppError, got %v", err)
	}
}
