// Package history persists the user's scan history and favorites locally.
package history

import (
	"context"
	"time"
)

// Search is one product lookup with the profit estimate computed at the time
// of the scan.
type Search struct {
	ID           string
	Query        string
	ProductTitle string
	ListingPrice float64
	ItemCost     float64
	EstProfit    float64
	EstMargin    float64
	ResultCount  int
	CreatedAt    time.Time
}

// Favorite is a product the user saved for later.
type Favorite struct {
	ID        string
	ProductID string
	Title     string
	Price     float64
	CreatedAt time.Time
}

type Repository interface {
	// AddSearch stores a search, assigning ID and CreatedAt when unset.
	AddSearch(ctx context.Context, s *Search) error

	// RecentSearches returns up to limit searches, newest first.
	RecentSearches(ctx context.Context, limit int) ([]*Search, error)

	ClearSearches(ctx context.Context) error

	// AddFavorite stores a favorite, assigning ID and CreatedAt when unset.
	// Saving the same product twice updates the existing row.
	AddFavorite(ctx context.Context, f *Favorite) error

	RemoveFavorite(ctx context.Context, productID string) error

	Favorites(ctx context.Context) ([]*Favorite, error)
}
