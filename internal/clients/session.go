package clients

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Session holds the admin bearer token.
// JWT tokens carry their own expiry; opaque tokens are treated as never expiring.
type Session struct {
	token     string
	subject   string
	expiresAt time.Time
}

// NewSession inspects token without verifying its signature; the API does that.
func NewSession(token string) *Session {
	s := &Session{token: token}
	if token == "" {
		return s
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return s
	}

	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiresAt = exp.Time
	}
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		s.subject = sub
	}
	return s
}

// Token returns the bearer token or ErrSessionExpired when it expired at now.
func (s *Session) Token(now time.Time) (string, error) {
	if s.Expired(now) {
		return "", errors.Wrapf(ErrSessionExpired, "token expired at %s", s.expiresAt.Format(time.RFC3339))
	}
	return s.token, nil
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// ExpiresAt zero for opaque tokens.
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Subject of the JWT, usually the admin id.
func (s *Session) Subject() string {
	return s.subject
}
