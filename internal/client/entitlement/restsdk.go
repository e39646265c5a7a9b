package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// RESTSDK talks to the purchase provider's subscriber REST API. It covers
// the read side of the SDK surface: customer info, offerings, and identity
// rebinding. Purchases and restores go through the platform store on a
// device, so here they report ErrNotConfigured.
//
// The provider has no push channel over REST; the registered update handler
// fires after each successful snapshot fetch instead.
type RESTSDK struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu      sync.Mutex
	userID  string
	anonID  string
	handler func(Snapshot)
}

// NewRESTSDK builds a provider client. anonID is the identity used before
// any LogIn and again after LogOut.
func NewRESTSDK(baseURL, apiKey, anonID string, timeout time.Duration) *RESTSDK {
	return &RESTSDK{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		userID:  anonID,
		anonID:  anonID,
	}
}

func (s *RESTSDK) currentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *RESTSDK) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

type subscriberResponse struct {
	Subscriber struct {
		OriginalAppUserID string `json:"original_app_user_id"`
		Entitlements      map[string]struct {
			ExpiresDate *time.Time `json:"expires_date"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

func (r subscriberResponse) snapshot() Snapshot {
	snap := Snapshot{OriginalUserID: r.Subscriber.OriginalAppUserID}
	now := time.Now()
	for name, e := range r.Subscriber.Entitlements {
		// A nil expiry is a lifetime grant.
		if e.ExpiresDate == nil || e.ExpiresDate.After(now) {
			snap.ActiveEntitlements = append(snap.ActiveEntitlements, name)
		}
	}
	return snap
}

func (s *RESTSDK) fetchSnapshot(ctx context.Context, userID string) (Snapshot, error) {
	var res subscriberResponse
	if err := s.get(ctx, "/v1/subscribers/"+url.PathEscape(userID), &res); err != nil {
		return Snapshot{}, err
	}
	snap := res.snapshot()

	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		handler(snap)
	}
	return snap, nil
}

func (s *RESTSDK) CustomerInfo(ctx context.Context) (Snapshot, error) {
	return s.fetchSnapshot(ctx, s.currentUser())
}

func (s *RESTSDK) Offerings(ctx context.Context) ([]Package, error) {
	var res struct {
		Offerings []struct {
			Packages []struct {
				Identifier  string `json:"identifier"`
				PriceString string `json:"price_string"`
				Period      string `json:"period"`
			} `json:"packages"`
		} `json:"offerings"`
	}
	path := "/v1/subscribers/" + url.PathEscape(s.currentUser()) + "/offerings"
	if err := s.get(ctx, path, &res); err != nil {
		return nil, err
	}

	var pkgs []Package
	for _, o := range res.Offerings {
		for _, p := range o.Packages {
			pkgs = append(pkgs, Package{ID: p.Identifier, Price: p.PriceString, Period: p.Period})
		}
	}
	return pkgs, nil
}

func (s *RESTSDK) Purchase(ctx context.Context, packageID string) (Snapshot, error) {
	return Snapshot{}, ErrNotConfigured
}

func (s *RESTSDK) Restore(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, ErrNotConfigured
}

// LogIn rebinds the provider identity to the backend user id and returns the
// snapshot for that identity.
func (s *RESTSDK) LogIn(ctx context.Context, userID string) (Snapshot, error) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
	return s.fetchSnapshot(ctx, userID)
}

// LogOut drops back to the anonymous identity.
func (s *RESTSDK) LogOut(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.userID = s.anonID
	s.mu.Unlock()
	return s.fetchSnapshot(ctx, s.anonID)
}

func (s *RESTSDK) OnUpdate(fn func(Snapshot)) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}
