package auth

import (
	"github.com/labstack/echo/v4"
)

// Context key for storing session data in Echo context. The garments
// plugin uses the exported getters below to decide field-level redaction.
const contextKeySession = "auth_session"

// WithSession returns middleware that decodes the session cookie (if any)
// and injects the session into the request context. Unlike a RequireAuth
// middleware it never rejects the request: every garment endpoint serves
// unauthenticated callers, just with privileged fields redacted. Invalid
// or expired cookies are cleared so the browser stops sending them.
func WithSession(service AuthService, forceSecure bool) echo.MiddlewareFunc {
	// A throwaway handler gives us the shared cookie helpers.
	h := &Handler{service: service, forceSecure: forceSecure}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return next(c)
			}

			session, err := service.ReadSession(token)
			if err != nil {
				// Invalid or expired session -- clear the stale cookie
				// and continue unauthenticated.
				h.clearSessionCookie(c)
				return next(c)
			}

			c.Set(contextKeySession, session)
			return next(c)
		}
	}
}

// --- Exported getters for other plugins ---

// GetSession retrieves the session from the Echo context. Returns nil when
// the request is unauthenticated (or the middleware was not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// IsPrivileged reports whether the request carries a valid, unexpired
// research session. This is the single gate for privileged garment fields.
func IsPrivileged(c echo.Context) bool {
	return GetSession(c) != nil
}
