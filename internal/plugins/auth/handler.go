package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eccearchive/ecce/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "ecce_session"

// sessionCookieMaxAge is the default cookie lifetime, matching the 7-day
// session TTL in seconds.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// Handler handles HTTP requests for the auth gate (login, logout, session
// check). Handlers are thin: they bind the request, call the service, and
// render the response. No business logic lives here.
type Handler struct {
	service AuthService

	// forceSecure marks cookies Secure regardless of the request scheme.
	// Set in production, where the proxy always terminates TLS.
	forceSecure bool

	// cookieMaxAge is the session cookie lifetime in seconds. Must match
	// the TTL the service signs into the token, or the browser would keep
	// sending cookies the server rejects (or drop ones it still accepts).
	cookieMaxAge int
}

// NewHandler creates a new auth handler with the given service. The ttl
// must be the same session lifetime the service was constructed with; a
// non-positive ttl falls back to the 7-day default.
func NewHandler(service AuthService, forceSecure bool, ttl time.Duration) *Handler {
	maxAge := sessionCookieMaxAge
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	return &Handler{service: service, forceSecure: forceSecure, cookieMaxAge: maxAge}
}

// Login processes a research-mode login (POST /api/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Invalid request body")
	}
	if req.Password == "" {
		return apperror.NewBadRequest("Password is required")
	}

	role, token, err := h.service.Authenticate(c.Request().Context(), req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, LoginResponse{Success: true, Role: role})
}

// Logout clears the session cookie (POST /api/auth/logout). Idempotent:
// it succeeds whether or not a session exists.
func (h *Handler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, LogoutResponse{Success: true})
}

// SessionInfo reports the current session state (GET /api/auth/session).
// It never returns an error to the caller: decode failures and expired
// sessions degrade to unauthenticated, and the stale cookie is cleared so
// the browser stops sending it.
func (h *Handler) SessionInfo(c echo.Context) error {
	token := getSessionToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
	}

	session, err := h.service.ReadSession(token)
	if err != nil {
		slog.Debug("discarding invalid session cookie", slog.Any("error", err))
		h.clearSessionCookie(c)
		return c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		Role:          &session.Role,
	})
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure in production or behind TLS, and
// SameSite=Lax.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.forceSecure || req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   h.cookieMaxAge,
	})
}

// clearSessionCookie removes the session cookie by setting an empty value
// with MaxAge -1.
func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
