// Package store is the persisted local key-value store for the client:
// session token, device identity, and UI preferences.
//
// Storage failures are never fatal here. Session bootstrapping must degrade
// to "unauthenticated" rather than crash, so the Store adapter logs every
// repository error and reports reads as absent and writes as no-ops.
package store

import (
	"context"
	"strings"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

// Keys persisted by the client. Unknown or malformed values default to the
// key's empty state; there is no migration logic.
const (
	KeyAuthToken          = "auth_token"
	KeyDeviceID           = "device_id"
	KeyThemeMode          = "theme_mode"
	KeyLegalAccepted      = "legal_accepted"
	KeyOnboardingComplete = "onboarding_complete"
)

// Boolean-ish keys store this sentinel string, matching what the backend's
// other clients write.
const sentinelTrue = "true"

// ThemeDefault is the fallback when theme_mode is unset or malformed.
const ThemeDefault = "system"

var themeModes = []string{"light", "dark", ThemeDefault}

// Store wraps a Repository with never-fail semantics.
type Store struct {
	repo Repository
	log  logging.Logger
}

func New(repo Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// Get returns the stored value, or "" when the key is absent or storage
// failed.
func (s *Store) Get(ctx context.Context, key string) string {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "store read failed, treating as absent", "key", key, "error", err)
		return ""
	}
	return v
}

// Set persists the value; failures are logged and dropped.
func (s *Store) Set(ctx context.Context, key, value string) {
	if err := s.repo.Set(ctx, key, value); err != nil {
		s.log.Warn(ctx, "store write failed", "key", key, "error", err)
	}
}

// Remove deletes the key; failures are logged and dropped.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.repo.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "store delete failed", "key", key, "error", err)
	}
}

// WipeSessionKeys removes credentials while keeping device identity and UI
// preferences: the device limit must keep counting the same device across
// logins, and theme/legal/onboarding state are not secrets.
func (s *Store) WipeSessionKeys(ctx context.Context) {
	s.Remove(ctx, KeyAuthToken)
}

// ThemeMode returns "light", "dark" or "system", falling back to "system"
// for anything unrecognized.
func (s *Store) ThemeMode(ctx context.Context) string {
	v := strings.ToLower(s.Get(ctx, KeyThemeMode))
	for _, m := range themeModes {
		if v == m {
			return m
		}
	}
	return ThemeDefault
}

// SetThemeMode stores the theme if it is a known mode; otherwise the call is
// ignored.
func (s *Store) SetThemeMode(ctx context.Context, mode string) {
	mode = strings.ToLower(mode)
	for _, m := range themeModes {
		if mode == m {
			s.Set(ctx, KeyThemeMode, mode)
			return
		}
	}
	s.log.Warn(ctx, "ignoring unknown theme mode", "mode", mode)
}

func (s *Store) LegalAccepted(ctx context.Context) bool {
	return s.Get(ctx, KeyLegalAccepted) == sentinelTrue
}

func (s *Store) SetLegalAccepted(ctx context.Context) {
	s.Set(ctx, KeyLegalAccepted, sentinelTrue)
}

func (s *Store) OnboardingComplete(ctx context.Context) bool {
	return s.Get(ctx, KeyOnboardingComplete) == sentinelTrue
}

func (s *Store) SetOnboardingComplete(ctx context.Context) {
	s.Set(ctx, KeyOnboardingComplete, sentinelTrue)
}
