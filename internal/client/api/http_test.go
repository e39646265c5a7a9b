package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func TestLogin_Success(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req["email"])
		require.Equal(t, "dev1", req["deviceId"])
		require.Equal(t, "iPhone", req["deviceName"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "T1",
			"user": map[string]any{
				"id":                 "u1",
				"email":              "a@b.com",
				"subscriptionStatus": "free",
				"searchesRemaining":  5,
			},
		})
	})

	res, err := c.Login(context.Background(), "a@b.com", "secret123", "dev1", "iPhone")
	require.NoError(t, err)
	require.Equal(t, "T1", res.Token)
	require.NotNil(t, res.User)
	require.Equal(t, "u1", res.User.ID)
	require.Equal(t, "free", res.User.SubscriptionStatus)
	require.Equal(t, 5, res.User.SearchesRemaining)
}

func TestLogin_DeviceLimit(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":              "Device limit reached",
			"deviceLimitReached": true,
		})
	})

	_, err := c.Login(context.Background(), "a@b.com", "secret123", "dev1", "iPhone")
	be := AsBusiness(err)
	require.NotNil(t, be)
	require.True(t, be.DeviceLimitReached)
	require.Equal(t, "Device limit reached", be.Message)
}

func TestLogin_BadCredentials401IsBusinessFailure(t *testing.T) {
	// On unauthenticated endpoints a 401 is a rejection of the submitted
	// credentials, not of a stored token.
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "Invalid email or password"})
	})

	_, err := c.Login(context.Background(), "a@b.com", "wrong", "dev1", "iPhone")
	require.False(t, errors.Is(err, ErrUnauthorized))
	require.NotNil(t, AsBusiness(err))
}

func TestSignup_RequiresVerification(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"requiresVerification": true,
			"email":                "a@b.com",
		})
	})

	res, err := c.Signup(context.Background(), "a@b.com", "secret123", "dev1", "iPhone")
	require.NoError(t, err)
	require.True(t, res.RequiresVerification)
	require.Equal(t, "a@b.com", res.Email)
	require.Empty(t, res.Token)
	require.Nil(t, res.User)
}

func TestAuthCalls_EmptySuccessBodyIsUnavailable(t *testing.T) {
	// A 2xx with no token/user is a degenerate backend response; it must map
	// to the network-failure sentinel, never surface a nil user.
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()

	_, err := c.Login(ctx, "a@b.com", "p", "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = c.Signup(ctx, "a@b.com", "p", "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = c.VerifyEmail(ctx, "a@b.com", "123456", "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = c.SocialLogin(ctx, SocialIdentity{Provider: "google", GoogleID: "g1"}, "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_MissingUserIsUnavailable(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "T1"})
	})

	_, err := c.Login(context.Background(), "a@b.com", "p", "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMe_Unauthorized(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Me(context.Background(), "T1")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_Success(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": "u1", "email": "a@b.com", "subscriptionStatus": "active"},
		})
	})

	user, err := c.Me(context.Background(), "T1")
	require.NoError(t, err)
	require.Equal(t, "active", user.SubscriptionStatus)
}

func TestSubscriptionSync_SendsProviderFields(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/subscription/sync", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, true, req["isPro"])
		require.Equal(t, "rc_anon_1", req["revenuecatUserId"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": "u1", "subscriptionStatus": "active"},
		})
	})

	user, err := c.SubscriptionSync(context.Background(), "T1", true, "rc_anon_1")
	require.NoError(t, err)
	require.Equal(t, "active", user.SubscriptionStatus)
}

func TestCall_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections
	c := NewHTTPClient(srv.URL, time.Second)

	_, err := c.Login(context.Background(), "a@b.com", "p", "d", "n")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCall_MalformedJSONFallsBackToUnavailable(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.Me(context.Background(), "T1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogout_SendsDeviceID(t *testing.T) {
	var gotDevice string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotDevice = req["deviceId"]
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Logout(context.Background(), "T1", "dev1"))
	require.Equal(t, "dev1", gotDevice)
}

func TestSubscriptionCheck(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/subscription/check", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "active",
			"cancelAtPeriodEnd": true,
			"periodEndDate":     "2026-09-30",
		})
	})

	st, err := c.SubscriptionCheck(context.Background(), "T1")
	require.NoError(t, err)
	require.Equal(t, "active", st.Status)
	require.True(t, st.CancelAtPeriodEnd)
	require.Equal(t, "2026-09-30", st.PeriodEndDate)
}
