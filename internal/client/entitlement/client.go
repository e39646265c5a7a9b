package entitlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

// offeringsMaxRetries bounds the package-list fetch; after exhaustion the
// client simply offers no packages.
const offeringsMaxRetries = 2

// Client caches the provider's snapshot and answers entitlement questions
// from it. The pro flag is recomputed from the active entitlement set on
// every read and never stored as a separate boolean.
type Client struct {
	sdk    SDK
	proIDs []string
	delay  time.Duration
	log    logging.Logger

	mu       sync.RWMutex
	snap     Snapshot
	packages []Package
}

// NewClient builds an adapter over the given SDK. proIDs is the accepted set
// of pro entitlement identifiers (matched case-insensitively); delay is the
// fixed interval between offerings fetch retries.
func NewClient(sdk SDK, proIDs []string, delay time.Duration, log logging.Logger) *Client {
	return &Client{sdk: sdk, proIDs: proIDs, delay: delay, log: log}
}

// Init fetches the initial snapshot and the purchasable packages, and
// registers for provider-pushed updates. A missing offer list degrades to
// "no packages available"; only a failed snapshot fetch is reported, and
// even that leaves the client usable in its non-pro default state.
func (c *Client) Init(ctx context.Context) error {
	c.sdk.OnUpdate(c.replace)

	snap, err := c.sdk.CustomerInfo(ctx)
	if err != nil {
		c.log.Warn(ctx, "initial entitlement fetch failed", "error", err)
	} else {
		c.replace(snap)
	}

	c.loadOfferings(ctx)

	if err != nil {
		return fmt.Errorf("entitlement init: %w", err)
	}
	return nil
}

// loadOfferings pulls the package list with a bounded fixed-delay retry and
// abandons silently after exhaustion.
func (c *Client) loadOfferings(ctx context.Context) {
	backoff := retry.WithMaxRetries(offeringsMaxRetries, retry.NewConstant(c.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		pkgs, err := c.sdk.Offerings(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		c.mu.Lock()
		c.packages = pkgs
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		c.log.Warn(ctx, "offerings unavailable, continuing without packages", "error", err)
	}
}

// replace swaps the cached snapshot wholesale. It is the single write path
// for both explicit refreshes and provider-pushed updates.
func (c *Client) replace(snap Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Refresh pulls a fresh snapshot from the provider.
func (c *Client) Refresh(ctx context.Context) error {
	snap, err := c.sdk.CustomerInfo(ctx)
	if err != nil {
		return fmt.Errorf("refresh entitlements: %w", err)
	}
	c.replace(snap)
	return nil
}

// IsPro reports whether any active entitlement matches the accepted pro set,
// case-insensitively. Unmatched active entitlements are logged so new
// identifier variants surface at integration time.
func (c *Client) IsPro() bool {
	c.mu.RLock()
	active := c.snap.ActiveEntitlements
	c.mu.RUnlock()

	pro := false
	for _, id := range active {
		matched := false
		for _, want := range c.proIDs {
			if strings.EqualFold(id, want) {
				matched = true
				pro = true
				break
			}
		}
		if !matched {
			c.log.Debug(context.Background(), "active entitlement not in accepted pro set", "entitlement", id)
		}
	}
	return pro
}

// Snapshot returns a copy of the cached provider snapshot.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := c.snap
	snap.ActiveEntitlements = append([]string(nil), c.snap.ActiveEntitlements...)
	return snap
}

// OriginalUserID returns the provider's internal identifier for the current
// purchasing identity.
func (c *Client) OriginalUserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.OriginalUserID
}

// Packages returns the cached purchasable packages, possibly empty.
func (c *Client) Packages() []Package {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Package(nil), c.packages...)
}

// Purchase buys a package. ErrPurchaseCancelled is passed through untouched
// so callers can keep quiet about user-initiated cancellations.
func (c *Client) Purchase(ctx context.Context, packageID string) error {
	snap, err := c.sdk.Purchase(ctx, packageID)
	if err != nil {
		if errors.Is(err, ErrPurchaseCancelled) {
			return err
		}
		return fmt.Errorf("purchase: %w", err)
	}
	c.replace(snap)
	return nil
}

// Restore replays prior purchases from the store account.
func (c *Client) Restore(ctx context.Context) error {
	snap, err := c.sdk.Restore(ctx)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscriptions) {
			return err
		}
		return fmt.Errorf("restore: %w", err)
	}
	c.replace(snap)
	return nil
}

// Identify rebinds the provider identity to the backend user id. Binding is
// advisory: failures are logged and swallowed so they never block the auth
// flow that triggered them.
func (c *Client) Identify(ctx context.Context, userID string) {
	snap, err := c.sdk.LogIn(ctx, userID)
	if err != nil {
		c.log.Warn(ctx, "provider identify failed", "user_id", userID, "error", err)
		return
	}
	c.replace(snap)
}

// Logout drops the provider identity. Advisory, like Identify.
func (c *Client) Logout(ctx context.Context) {
	snap, err := c.sdk.LogOut(ctx)
	if err != nil {
		c.log.Warn(ctx, "provider logout failed", "error", err)
		return
	}
	c.replace(snap)
}
