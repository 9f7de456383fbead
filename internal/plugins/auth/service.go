package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/eccearchive/ecce/internal/apperror"
)

// sessionTTL is the default session lifetime: 7 days (604800 seconds),
// per the research-mode contract. Config can override it for tests and
// staging.
const sessionTTL = 7 * 24 * time.Hour

// AuthService defines the business logic contract for the auth gate.
// Handlers call these methods -- they never touch the credential source
// or the token codec directly.
type AuthService interface {
	Authenticate(ctx context.Context, credential string) (Role, string, error)
	ReadSession(token string) (*Session, error)
}

// authService implements AuthService with CMS-sourced credentials and
// signed session tokens.
type authService struct {
	creds CredentialSource
	codec *TokenCodec
	ttl   time.Duration
	now   func() time.Time
}

// NewAuthService creates a new auth service with the given dependencies.
// Sessions issued by the service are valid for ttl; a non-positive ttl
// falls back to the 7-day default.
func NewAuthService(creds CredentialSource, codec *TokenCodec, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &authService{
		creds: creds,
		codec: codec,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Authenticate checks a submitted credential against the configured role
// map and, on a match, returns the role together with a signed session
// token. Only one role can match since comparison is by equality; iteration
// order over the map is irrelevant.
func (s *authService) Authenticate(ctx context.Context, credential string) (Role, string, error) {
	if credential == "" {
		return "", "", apperror.NewBadRequest("Password is required")
	}

	credentials, err := s.creds.Credentials(ctx)
	if err != nil {
		return "", "", apperror.NewConfiguration(fmt.Errorf("loading credentials: %w", err))
	}
	if len(credentials) == 0 {
		return "", "", apperror.NewConfiguration(fmt.Errorf("credential map is empty"))
	}

	var matched Role
	for role, expected := range credentials {
		// Constant-time compare so response timing leaks nothing about
		// how close a guess was. Check every entry even after a match.
		if subtle.ConstantTimeCompare([]byte(expected), []byte(credential)) == 1 {
			matched = Role(role)
		}
	}
	if matched == "" {
		return "", "", apperror.NewInvalidCredential()
	}

	now := s.now().UTC()
	session := Session{
		Role:            matched,
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(s.ttl),
	}

	token, err := s.codec.Encode(session)
	if err != nil {
		return "", "", apperror.NewInternal(fmt.Errorf("encoding session: %w", err))
	}

	slog.Info("research session issued",
		slog.String("role", string(matched)),
	)

	return matched, token, nil
}

// ReadSession decodes and validates a session token. It fails closed: any
// decode error or an expired session returns an error, and callers treat
// that as "not authenticated."
func (s *authService) ReadSession(token string) (*Session, error) {
	session, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	// The codec already rejects expired tokens; this guard keeps the
	// invariant local in case the codec's validation options ever change.
	if session.Expired(s.now()) {
		return nil, fmt.Errorf("session expired")
	}
	return session, nil
}
