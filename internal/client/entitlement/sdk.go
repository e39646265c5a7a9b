package entitlement

import (
	"context"
	"errors"
)

var (
	// ErrPurchaseCancelled marks a user-initiated cancellation. It is not a
	// real failure and must not alarm the user.
	ErrPurchaseCancelled = errors.New("purchase cancelled")

	// ErrNoActiveSubscriptions is returned by Restore when the store account
	// has nothing to restore.
	ErrNoActiveSubscriptions = errors.New("no active subscriptions found")

	// ErrNotConfigured is returned by SDK operations that need a configured
	// provider (no API key, or a platform without purchase support).
	ErrNotConfigured = errors.New("purchases not configured")
)

// SDK is the boundary to the third-party purchase SDK. One instance exists
// per process.
//
// Implementations must be safe for concurrent use. The update handler, once
// registered, may be invoked at any time with a fresh snapshot (renewal,
// purchase made on another device); its only allowed effect upstream is
// replacing the cached snapshot.
type SDK interface {
	CustomerInfo(ctx context.Context) (Snapshot, error)
	Offerings(ctx context.Context) ([]Package, error)
	Purchase(ctx context.Context, packageID string) (Snapshot, error)
	Restore(ctx context.Context) (Snapshot, error)
	LogIn(ctx context.Context, userID string) (Snapshot, error)
	LogOut(ctx context.Context) (Snapshot, error)
	OnUpdate(fn func(Snapshot))
}

// NoopSDK is the degraded-mode SDK used when no provider API key is
// configured or the platform has no purchase support. Every entitlement
// check reads as non-pro and no packages are offered.
type NoopSDK struct{}

func NewNoopSDK() *NoopSDK { return &NoopSDK{} }

func (*NoopSDK) CustomerInfo(ctx context.Context) (Snapshot, error) { return Snapshot{}, nil }

func (*NoopSDK) Offerings(ctx context.Context) ([]Package, error) { return nil, nil }

func (*NoopSDK) Purchase(ctx context.Context, packageID string) (Snapshot, error) {
	return Snapshot{}, ErrNotConfigured
}

func (*NoopSDK) Restore(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, ErrNotConfigured
}

func (*NoopSDK) LogIn(ctx context.Context, userID string) (Snapshot, error) {
	return Snapshot{}, nil
}

func (*NoopSDK) LogOut(ctx context.Context) (Snapshot, error) { return Snapshot{}, nil }

func (*NoopSDK) OnUpdate(fn func(Snapshot)) {}
