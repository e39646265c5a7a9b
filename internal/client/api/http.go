package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient is the concrete Client over the backend's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the given API base URL, e.g.
// "https://api.example.com". The timeout bounds every individual request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// errorBody is the server's rejection envelope. Some endpoints use "error",
// others "message"; both are accepted.
type errorBody struct {
	Error                string `json:"error"`
	Message              string `json:"message"`
	DeviceLimitReached   bool   `json:"deviceLimitReached"`
	RequiresVerification bool   `json:"requiresVerification"`
	Email                string `json:"email"`
}

// call issues one JSON request. body may be nil for GET-style calls; out may
// be nil when the response body is irrelevant. authed marks endpoints where
// a 401 means "token invalid" rather than "bad credentials".
func (c *HTTPClient) call(ctx context.Context, method, path, token string, authed bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
		return nil
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil {
		return fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}
	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}
	return &BusinessError{
		Message:              msg,
		DeviceLimitReached:   eb.DeviceLimitReached,
		RequiresVerification: eb.RequiresVerification,
		Email:                eb.Email,
	}
}

// checkAuthResult validates a decoded 2xx auth body. A response without a
// token and user is as unusable as no response at all, so it maps to
// ErrUnavailable rather than letting a nil user escape to callers.
func checkAuthResult(res *AuthResult) error {
	if res.Token == "" || res.User == nil {
		return fmt.Errorf("%w: incomplete auth response", ErrUnavailable)
	}
	return nil
}

type credentialsRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password, deviceID, deviceName string) (*AuthResult, error) {
	var res AuthResult
	req := credentialsRequest{Email: email, Password: password, DeviceID: deviceID, DeviceName: deviceName}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", "", false, req, &res); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, password, deviceID, deviceName string) (*AuthResult, error) {
	var res AuthResult
	req := credentialsRequest{Email: email, Password: password, DeviceID: deviceID, DeviceName: deviceName}
	if err := c.call(ctx, http.MethodPost, "/api/auth/signup", "", false, req, &res); err != nil {
		return nil, err
	}
	// The verification path carries no token or user yet.
	if !res.RequiresVerification {
		if err := checkAuthResult(&res); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, code, deviceID, deviceName string) (*AuthResult, error) {
	var res AuthResult
	req := struct {
		Email      string `json:"email"`
		Code       string `json:"code"`
		DeviceID   string `json:"deviceId"`
		DeviceName string `json:"deviceName"`
	}{email, code, deviceID, deviceName}
	if err := c.call(ctx, http.MethodPost, "/api/auth/verify-email", "", false, req, &res); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) SocialLogin(ctx context.Context, identity SocialIdentity, deviceID, deviceName string) (*AuthResult, error) {
	var res AuthResult
	req := struct {
		SocialIdentity
		DeviceID   string `json:"deviceId"`
		DeviceName string `json:"deviceName"`
	}{identity, deviceID, deviceName}
	if err := c.call(ctx, http.MethodPost, "/api/auth/social", "", false, req, &res); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	var res struct {
		User *User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", token, true, nil, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("%w: empty user in response", ErrUnavailable)
	}
	return res.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token, deviceID string) error {
	req := struct {
		DeviceID string `json:"deviceId"`
	}{deviceID}
	return c.call(ctx, http.MethodPost, "/api/auth/logout", token, true, req, nil)
}

func (c *HTTPClient) SubscriptionSync(ctx context.Context, token string, isPro bool, providerUserID string) (*User, error) {
	var res struct {
		User *User `json:"user"`
	}
	req := struct {
		IsPro            bool   `json:"isPro"`
		RevenuecatUserID string `json:"revenuecatUserId"`
	}{isPro, providerUserID}
	if err := c.call(ctx, http.MethodPost, "/api/subscription/sync", token, true, req, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("%w: empty user in response", ErrUnavailable)
	}
	return res.User, nil
}

func (c *HTTPClient) SubscriptionCheck(ctx context.Context, token string) (*SubscriptionStatus, error) {
	var res SubscriptionStatus
	if err := c.call(ctx, http.MethodPost, "/api/subscription/check", token, true, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
