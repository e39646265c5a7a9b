// Package session merges the local store, the backend session API, and the
// purchase provider into one coherent session view for the rest of the app.
package session

import "github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/api"

// SubscriptionActive is the backend's subscription status for a paying user.
const SubscriptionActive = "active"

// Session is the in-memory authoritative identity view. It is owned and
// mutated only by the Manager; everything else reads snapshots of it.
type Session struct {
	User  *api.User
	Token string
}

// IsAuthenticated is derived, never stored: true iff a user is present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

// IsPro reports whether the backend-confirmed subscription status is active.
// Gating decisions read this, never the raw provider snapshot: the backend
// is the source of truth and may override the provider (e.g. chargebacks).
func (s Session) IsPro() bool {
	return s.User != nil && s.User.SubscriptionStatus == SubscriptionActive
}
