package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlot is an in-memory TokenSlot.
type fakeSlot struct {
	token string
	err   error
}

func (s *fakeSlot) Get() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func (s *fakeSlot) Set(token string) error {
	s.token = token
	return nil
}

func (s *fakeSlot) Delete() error {
	s.token = ""
	return nil
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "quan",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

func TestIsAuthenticatedValidToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot := &fakeSlot{token: signedToken(t, now.Add(time.Hour))}
	g := NewGuardWithClock(slot, func() time.Time { return now })

	assert.True(t, g.IsAuthenticated())
	assert.NotEmpty(t, slot.token, "valid token must stay in the slot")
}

func TestIsAuthenticatedExpiredTokenRemoved(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot := &fakeSlot{token: signedToken(t, now.Add(-time.Minute))}
	g := NewGuardWithClock(slot, func() time.Time { return now })

	assert.False(t, g.IsAuthenticated())
	assert.Empty(t, slot.token, "expired token must be deleted from the slot")
}

func TestIsAuthenticatedExpiryBoundary(t *testing.T) {
	// A token expiring exactly now is already invalid.
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot := &fakeSlot{token: signedToken(t, now)}
	g := NewGuardWithClock(slot, func() time.Time { return now })

	assert.False(t, g.IsAuthenticated())
}

func TestIsAuthenticatedEmptySlot(t *testing.T) {
	g := NewGuard(&fakeSlot{})
	assert.False(t, g.IsAuthenticated())
}

func TestIsAuthenticatedSlotError(t *testing.T) {
	g := NewGuard(&fakeSlot{err: errors.New("keyring locked")})
	assert.False(t, g.IsAuthenticated())
}

func TestIsAuthenticatedMalformedToken(t *testing.T) {
	slot := &fakeSlot{token: "not-a-jwt"}
	g := NewGuard(slot)

	assert.False(t, g.IsAuthenticated())
	assert.Equal(t, "not-a-jwt", slot.token,
		"malformed token is rejected but not deleted")
}

func TestIsAuthenticatedMissingExpClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{Subject: "quan"},
	).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	g := NewGuard(&fakeSlot{token: token})
	assert.False(t, g.IsAuthenticated())
}

func TestEstablishAndSignOut(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slot := &fakeSlot{}
	g := NewGuardWithClock(slot, func() time.Time { return now })

	require.NoError(t, g.Establish(signedToken(t, now.Add(time.Hour))))
	assert.True(t, g.IsAuthenticated())

	token, ok := g.Token()
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	require.NoError(t, g.SignOut())
	assert.False(t, g.IsAuthenticated())

	_, ok = g.Token()
	assert.False(t, ok)
}
