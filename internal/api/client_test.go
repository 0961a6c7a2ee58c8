package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withToken(token string) TokenProvider {
	return func() (string, bool) { return token, token != "" }
}

func noToken() (string, bool) { return "", false }

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, withToken("tok-123"))
	require.NoError(t, c.Get(context.Background(), "/api/devices", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	require.NoError(t, c.Get(context.Background(), "/api/devices", nil))
	assert.False(t, hadAuth)
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, withToken("stale"))
	err := c.Get(context.Background(), "/api/devices", nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	// Wrapped auth errors are still recognized.
	_, werr := c.ListDevices(context.Background())
	require.Error(t, werr)
	assert.True(t, IsAuthError(werr))
}

func TestRateLimitRetriesWithRetryAfter(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	_, err := c.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestErrorEnvelopeMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: "pin already in use"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	_, err := c.CreateDevice(context.Background(), DevicePayload{Name: "lamp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pin already in use")
}

func TestLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "quan", body["username"])

		w.Write([]byte(`{
			"message": "ok",
			"token": {"access_token": "jwt-here", "expiry_at": "2026-09-01T10:00:00.000Z"},
			"user": {"username": "quan", "role": "admin"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	resp, err := c.Login(context.Background(), "quan", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-here", resp.Token.AccessToken)
	assert.Equal(t, "2026-09-01T10:00:00.000Z", resp.Token.ExpiryAt)
	assert.Equal(t, "quan", resp.User.Username)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	_, err := c.Login(context.Background(), "quan", "secret")
	assert.Error(t, err)
}

func TestListUsersPaginationParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "40", q.Get("offset"))
		assert.Equal(t, "qu", q.Get("search"))

		w.Write([]byte(`{
			"message": "ok",
			"data": [{"id": "u1", "username": "quan", "role": "admin"}],
			"pagination": {"total": 41, "limit": 20, "offset": 40, "hasMore": false}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	users, page, err := c.ListUsers(context.Background(), 20, 40, "qu")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "quan", users[0].Username)
	assert.Equal(t, 41, page.Total)
	assert.False(t, page.HasMore)
}

func TestDeviceStatsMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/devices/stats", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"by_room": [{"room": "kitchen", "count": 3}],
			"by_type": [{"type": "light", "count": 2}, {"type": "sensor", "count": 1}],
			"by_status": [{"status": "online", "count": 2}, {"status": "offline", "count": 1}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenProvider(noToken))
	stats, err := c.DeviceStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.ByRoom, 1)
	assert.Equal(t, "kitchen", stats.ByRoom[0].Label)
	assert.Equal(t, 3, stats.ByRoom[0].Count)
	assert.Len(t, stats.ByType, 2)
	assert.Len(t, stats.ByStatus, 2)
}
