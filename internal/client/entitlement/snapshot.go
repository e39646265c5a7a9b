// Package entitlement wraps the third-party purchase-management SDK behind a
// small adapter that caches the provider's customer snapshot and computes
// the pro flag from it on every read.
package entitlement

// Package is a purchasable subscription package offered by the provider.
type Package struct {
	ID     string
	Price  string // display price, already localized by the provider
	Period string // e.g. "monthly", "annual"
}

// Snapshot is the provider's view of the purchasing identity. It is replaced
// wholesale on every successful purchase, restore, refresh, identity change,
// or provider-pushed update; nothing in it is mutated in place.
type Snapshot struct {
	// ActiveEntitlements holds the provider's active entitlement
	// identifiers verbatim; matching against the accepted pro set is
	// case-insensitive and happens at read time.
	ActiveEntitlements []string

	// OriginalUserID is the identifier the provider uses internally. It may
	// differ from the backend user id until LogIn rebinds it.
	OriginalUserID string
}
