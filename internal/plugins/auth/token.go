package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the JWT claim set for a research-mode session. The role
// rides as a private claim; issuance and expiry use the registered iat/exp
// claims so standard validation applies.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens. Tokens are HMAC-signed
// (HS256) so the role and expiry cannot be forged client-side; an
// unsigned encoding would let anyone mint a research session.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec from the configured secret key.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Encode produces a signed token for the given session.
func (t *TokenCodec) Encode(session Session) (string, error) {
	claims := sessionClaims{
		Role: string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(session.AuthenticatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and returns the session it carries. Any failure
// (bad signature, wrong algorithm, malformed payload, expired) returns an
// error; callers treat all of them as "no session."
func (t *TokenCodec) Decode(tokenString string) (*Session, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}

	if claims.Role == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("session token missing required claims")
	}

	return &Session{
		Role:            Role(claims.Role),
		AuthenticatedAt: claims.IssuedAt.Time,
		ExpiresAt:       claims.ExpiresAt.Time,
	}, nil
}
