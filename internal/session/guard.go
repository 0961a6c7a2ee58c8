// Package session decides whether the console may show protected views,
// based solely on the presence and freshness of the stored access token.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSlot is the durable storage slot holding the access token.
// An empty string with a nil error means the slot is empty.
type TokenSlot interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// Guard performs the authentication check for view routing. It holds no
// session state of its own: every call re-reads the slot and re-derives
// the answer.
type Guard struct {
	slot TokenSlot
	now  func() time.Time
}

// NewGuard creates a Guard backed by the given token slot.
func NewGuard(slot TokenSlot) *Guard {
	return &Guard{slot: slot, now: time.Now}
}

// NewGuardWithClock creates a Guard with an injected clock, for tests.
func NewGuardWithClock(slot TokenSlot, now func() time.Time) *Guard {
	return &Guard{slot: slot, now: now}
}

// IsAuthenticated reports whether a well-formed, unexpired token is
// stored. Decode failures of any kind are mapped to false, never
// propagated: a malformed or tampered token must not grant access.
// An expired token is actively removed from the slot so no other code
// path can pick it up later.
func (g *Guard) IsAuthenticated() bool {
	token, err := g.slot.Get()
	if err != nil || token == "" {
		return false
	}

	claims, err := decodeClaims(token)
	if err != nil {
		return false
	}

	// exp and now are both fractional seconds since epoch.
	now := float64(g.now().UnixMilli()) / 1000
	if claims.expiry <= now {
		_ = g.slot.Delete()
		return false
	}

	return true
}

// Establish stores a freshly issued token. Called after a successful
// login.
func (g *Guard) Establish(token string) error {
	if err := g.slot.Set(token); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	return nil
}

// SignOut removes the stored token.
func (g *Guard) SignOut() error {
	return g.slot.Delete()
}

// Token returns the raw stored token and whether one is present.
// Used by the API client to attach bearer credentials.
func (g *Guard) Token() (string, bool) {
	token, err := g.slot.Get()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// tokenClaims is the decoded subset of the token the guard cares about.
type tokenClaims struct {
	// expiry is the exp claim in fractional seconds since epoch.
	expiry float64
}

// decodeClaims parses the token without verifying its signature; only
// the embedded expiry is read. Every malformed-token condition comes
// back as an error for the caller to map to "not authenticated".
func decodeClaims(token string) (tokenClaims, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return tokenClaims{}, fmt.Errorf("decoding token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return tokenClaims{}, errors.New("token has no exp claim")
	}
	exp := float64(claims.ExpiresAt.UnixMilli()) / 1000
	return tokenClaims{expiry: exp}, nil
}
