// Package api is the stateless HTTP client for the backend of record.
// Each call builds a full URL from the configured base, attaches a bearer
// token when one is supplied, and decodes JSON bodies into typed results.
//
// Expected server rejections (bad credentials, device limit, unverified
// email) come back as *BusinessError values, never as panics or untyped
// strings; transport-level failures map to ErrUnavailable and rejected
// tokens to ErrUnauthorized. Callers branch with errors.Is / errors.As.
package api

import "context"

// User is the backend's authoritative view of the account.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	SearchesRemaining  int    `json:"searchesRemaining"`
}

// AuthResult is the successful outcome of login/signup/verify/social calls.
//
// Signup may short-circuit into the verification path: then Token and User
// are empty and RequiresVerification is set, with Email echoing the address
// the code was sent to. DeviceID is set when the server issued a fresh
// device identifier that the client should persist.
type AuthResult struct {
	Token                string `json:"token"`
	User                 *User  `json:"user"`
	DeviceID             string `json:"deviceId"`
	RequiresVerification bool   `json:"requiresVerification"`
	Email                string `json:"email"`
}

// SocialIdentity carries provider-specific identity claims, passed through
// as-is; the server is authoritative on account linking and creation.
type SocialIdentity struct {
	Provider string `json:"provider"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	GoogleID string `json:"googleId,omitempty"`
	AppleID  string `json:"appleId,omitempty"`
}

// SubscriptionStatus is the backend's answer to a subscription check.
type SubscriptionStatus struct {
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
	PeriodEndDate     string `json:"periodEndDate"`
}

// Client defines the backend session operations.
//
// Contract:
//   - Login/Signup/VerifyEmail/SocialLogin: authenticate and return a token
//     plus user, or a *BusinessError describing the rejection.
//   - Me: fetch the user for a token; ErrUnauthorized means the token is
//     invalid and the caller must clear the session.
//   - Logout: advisory; the caller proceeds with local teardown regardless.
//   - SubscriptionSync: push the entitlement provider's view; the returned
//     user carries the backend's authoritative subscription status.
//   - SubscriptionCheck: read the backend's subscription record.
type Client interface {
	Login(ctx context.Context, email, password, deviceID, deviceName string) (*AuthResult, error)
	Signup(ctx context.Context, email, password, deviceID, deviceName string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, email, code, deviceID, deviceName string) (*AuthResult, error)
	SocialLogin(ctx context.Context, identity SocialIdentity, deviceID, deviceName string) (*AuthResult, error)
	Me(ctx context.Context, token string) (*User, error)
	Logout(ctx context.Context, token, deviceID string) error
	SubscriptionSync(ctx context.Context, token string, isPro bool, providerUserID string) (*User, error)
	SubscriptionCheck(ctx context.Context, token string) (*SubscriptionStatus, error)
}
