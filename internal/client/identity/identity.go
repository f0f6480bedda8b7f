// Package identity supplies bearer tokens minted by the hosted identity
// provider. Tokens are inspected locally for expiry and profile claims but
// never verified: the backend does that.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the bearer token for the next request. An empty token
// with a nil error means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Claims is the subset of identity-token claims mailcal displays.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Issuer    string
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Inspect decodes token claims without verifying the signature.
func Inspect(token string) (*Claims, error) {
	var tc tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	c := &Claims{
		Subject: tc.Subject,
		Email:   tc.Email,
		Name:    tc.Name,
		Issuer:  tc.Issuer,
	}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// Expired reports whether the claims carry an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// StaticSource holds a single token supplied by configuration or the user.
// It is safe for concurrent use.
type StaticSource struct {
	mu      sync.RWMutex
	token   string
	claims  *Claims
	devMode bool
	now     func() time.Time
}

// NewStaticSource returns a source holding token. In dev mode a missing or
// expired token is tolerated and requests go out unauthenticated.
func NewStaticSource(token string, devMode bool) (*StaticSource, error) {
	s := &StaticSource{devMode: devMode, now: time.Now}
	if err := s.Set(token); err != nil {
		return nil, err
	}
	return s, nil
}

// Set replaces the held token. An empty token clears it.
func (s *StaticSource) Set(token string) error {
	var claims *Claims
	if token != "" {
		c, err := Inspect(token)
		if err != nil {
			return err
		}
		claims = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims
	return nil
}

// Claims returns the claims of the held token, if any.
func (s *StaticSource) Claims() (*Claims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims, s.claims != nil
}

// DevMode reports whether unauthenticated requests are permitted.
func (s *StaticSource) DevMode() bool {
	return s.devMode
}

func (s *StaticSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	token, claims := s.token, s.claims
	s.mu.RUnlock()

	switch {
	case token == "":
		if s.devMode {
			return "", nil
		}
		return "", common.ErrUnauthorized
	case claims.Expired(s.now()):
		if s.devMode {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", common.ErrUnauthorized, common.ErrTokenExpired)
	}
	return token, nil
}
