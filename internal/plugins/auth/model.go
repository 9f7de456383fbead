// Package auth is the session/auth gate for research mode. A visitor
// submits a shared password; if it matches one of the role credentials
// configured in the CMS, they receive a signed session cookie carrying
// that role for seven days. Privileged garment fields are only ever
// emitted while such a session is valid.
//
// Sessions are stateless: the cookie token is the whole session. There is
// no server-side session store to invalidate, which is acceptable because
// roles are shared credentials, not personal accounts.
package auth

import (
	"time"
)

// Role names the privilege tier granted by a credential. The set of roles
// is defined by the CMS research-access configuration; these constants
// name the roles the archive configures today.
type Role string

const (
	RoleCurator  Role = "curator"
	RoleDesigner Role = "designer"
)

// Session is the decoded state carried by the session cookie.
type Session struct {
	Role            Role      `json:"role"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// --- Request/Response DTOs ---

// LoginRequest holds the submitted research-mode credential.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Success bool `json:"success"`
	Role    Role `json:"role"`
}

// LogoutResponse is returned by the logout endpoint.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// SessionResponse describes the current session state. Role is null when
// unauthenticated, matching what the front end rehydrates from on load.
type SessionResponse struct {
	Authenticated bool  `json:"authenticated"`
	Role          *Role `json:"role"`
}
