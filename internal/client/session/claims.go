package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken means the bearer token is not a JWT; nothing can be said
// about its lifetime locally.
var ErrOpaqueToken = errors.New("session: token is not a JWT")

// TokenClaims is what the client can learn from a bearer token without the
// signing key. The backend stays the authority on validity.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carries an exp claim.
func (c TokenClaims) HasExpiry() bool { return !c.ExpiresAt.IsZero() }

func (c TokenClaims) Expired(now time.Time) bool {
	return c.HasExpiry() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (TokenClaims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return TokenClaims{}, ErrOpaqueToken
	}

	c := TokenClaims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the current token is a JWT whose exp has passed.
// Opaque tokens and logged-out stores are never expired.
func (s *Store) Expired(now time.Time) bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	c, err := ParseClaims(tok)
	if err != nil {
		return false
	}
	return c.Expired(now)
}
