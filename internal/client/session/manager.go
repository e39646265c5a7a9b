package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/api"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/store"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

// SubscriptionSuccessMarker is the substring in a deep-link URL that signals
// a completed checkout and triggers a reconciliation. It applies both to a
// cold start with that URL and to a live resume event.
const SubscriptionSuccessMarker = "subscription-success"

// Entitlements is the slice of the provider adapter the reconciler needs.
type Entitlements interface {
	Refresh(ctx context.Context) error
	IsPro() bool
	OriginalUserID() string
	Identify(ctx context.Context, userID string)
	Logout(ctx context.Context)
}

// Manager is the session reconciler. It owns the single in-memory Session
// and is the only writer to it.
type Manager struct {
	store      *store.Store
	api        api.Client
	ent        Entitlements
	deviceName string
	log        logging.Logger

	mu      sync.Mutex
	session Session

	// syncing coalesces overlapping reconciliations: a CheckSubscription
	// arriving while one is in flight returns immediately.
	syncing atomic.Bool
}

// NewManager wires the reconciler. deviceName is the human-readable label
// sent with login calls so the user can recognize the device later.
func NewManager(st *store.Store, client api.Client, ent Entitlements, deviceName string, log logging.Logger) *Manager {
	return &Manager{store: st, api: client, ent: ent, deviceName: deviceName, log: log}
}

// Session returns a copy of the current session.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) setSession(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// EnsureDeviceID returns the persisted device identity, generating and
// persisting one on first use. The identity lets the backend enforce its
// per-device login limit and anchors the anonymous provider identity, so it
// survives logout and is never regenerated unless storage is wiped.
func EnsureDeviceID(ctx context.Context, st *store.Store) string {
	if id := st.Get(ctx, store.KeyDeviceID); id != "" {
		return id
	}
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	id := fmt.Sprintf("device_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
	st.Set(ctx, store.KeyDeviceID, id)
	return id
}

// DeviceID returns the device identity backing this manager's store.
func (m *Manager) DeviceID(ctx context.Context) string {
	return EnsureDeviceID(ctx, m.store)
}

// Bootstrap restores the session after process start: read the stored token,
// fetch the user it belongs to, and bind the provider identity. No token, or
// a token the server rejects, leaves the session unauthenticated; a rejected
// token is also removed from the store. Transport failures keep the stored
// token so the next boot can retry. Bootstrap is idempotent.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token := m.store.Get(ctx, store.KeyAuthToken)
	if token == "" {
		return nil
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			m.log.Info(ctx, "stored token rejected, clearing session")
			m.store.WipeSessionKeys(ctx)
			m.setSession(Session{})
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}

	m.setSession(Session{User: user, Token: token})
	m.ent.Identify(ctx, user.ID)
	return nil
}

// completeAuth applies a successful authentication. The token is persisted
// before the in-memory session is set, so a crash in between leaves
// "has token, not yet authenticated" — safely retried by the next Bootstrap.
// Provider identity binding is advisory and never rolls back the login.
func (m *Manager) completeAuth(ctx context.Context, res *api.AuthResult) {
	m.store.Set(ctx, store.KeyAuthToken, res.Token)
	if res.DeviceID != "" {
		m.store.Set(ctx, store.KeyDeviceID, res.DeviceID)
	}
	m.setSession(Session{User: res.User, Token: res.Token})
	m.ent.Identify(ctx, res.User.ID)
}

// Login authenticates with email and password. Business rejections (bad
// credentials, device limit, unverified email) come back as *api.BusinessError.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.api.Login(ctx, email, password, m.DeviceID(ctx), m.deviceName)
	if err != nil {
		return err
	}
	m.completeAuth(ctx, res)
	return nil
}

// Signup creates an account. When the server short-circuits into the email
// verification path, the returned result has RequiresVerification set and no
// session is established; otherwise the session is authenticated on return.
func (m *Manager) Signup(ctx context.Context, email, password string) (*api.AuthResult, error) {
	res, err := m.api.Signup(ctx, email, password, m.DeviceID(ctx), m.deviceName)
	if err != nil {
		return nil, err
	}
	if res.RequiresVerification {
		return res, nil
	}
	m.completeAuth(ctx, res)
	return res, nil
}

// VerifyEmail exchanges a one-time code for a session. Reused or expired
// codes surface verbatim as business errors.
func (m *Manager) VerifyEmail(ctx context.Context, email, code string) error {
	res, err := m.api.VerifyEmail(ctx, email, code, m.DeviceID(ctx), m.deviceName)
	if err != nil {
		return err
	}
	m.completeAuth(ctx, res)
	return nil
}

// SocialLogin authenticates with provider-issued identity claims. The server
// is authoritative on account linking and creation.
func (m *Manager) SocialLogin(ctx context.Context, identity api.SocialIdentity) error {
	res, err := m.api.SocialLogin(ctx, identity, m.DeviceID(ctx), m.deviceName)
	if err != nil {
		return err
	}
	m.completeAuth(ctx, res)
	return nil
}

// RefreshUser re-fetches the user for the current token, overwriting only
// the user part of the session. An Unauthorized answer is the one
// server-driven forced logout: the session is cleared locally and silently.
func (m *Manager) RefreshUser(ctx context.Context) error {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()
	if token == "" {
		return nil
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			m.forceClear(ctx)
			return nil
		}
		return err
	}

	m.mu.Lock()
	if m.session.Token == token {
		m.session.User = user
	}
	m.mu.Unlock()
	return nil
}

// forceClear drops the session without any network calls.
func (m *Manager) forceClear(ctx context.Context) {
	m.store.WipeSessionKeys(ctx)
	m.setSession(Session{})
}

// Logout ends the session. The backend and provider logout calls are
// advisory; local state clearing is unconditional and happens even when
// both of them fail.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()

	if token != "" {
		if err := m.api.Logout(ctx, token, m.DeviceID(ctx)); err != nil {
			m.log.Warn(ctx, "backend logout failed, clearing locally anyway", "error", err)
		}
	}
	m.ent.Logout(ctx)

	m.store.WipeSessionKeys(ctx)
	m.setSession(Session{})
}

// CheckSubscription reconciles entitlement state: pull a fresh provider
// snapshot, push the computed pro flag to the backend, and adopt the
// backend's authoritative subscription status. On sync failure the last
// confirmed status stays untouched — a client-side guess is never adopted.
//
// At most one reconciliation runs at a time; overlapping calls return
// immediately and rely on the in-flight one to refresh state.
func (m *Manager) CheckSubscription(ctx context.Context) error {
	if !m.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer m.syncing.Store(false)

	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()
	if token == "" {
		return nil
	}

	if err := m.ent.Refresh(ctx); err != nil {
		// Stale snapshot is still usable; the backend override below
		// protects against it being wrong.
		m.log.Debug(ctx, "provider refresh failed, syncing cached snapshot", "error", err)
	}

	user, err := m.api.SubscriptionSync(ctx, token, m.ent.IsPro(), m.ent.OriginalUserID())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			// Lost a race with logout; the write targeted a dead token.
			return nil
		}
		return fmt.Errorf("subscription sync: %w", err)
	}

	m.mu.Lock()
	if m.session.Token == token {
		m.session.User = user
	}
	m.mu.Unlock()
	return nil
}

// HandleURL reacts to a deep link, whether it arrived on a cold start or a
// live resume. Only checkout-success links are meaningful here.
func (m *Manager) HandleURL(ctx context.Context, url string) error {
	if !strings.Contains(url, SubscriptionSuccessMarker) {
		return nil
	}
	return m.CheckSubscription(ctx)
}

// OnResume re-checks entitlement state when the app returns to the
// foreground.
func (m *Manager) OnResume(ctx context.Context) error {
	return m.CheckSubscription(ctx)
}
