package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) AddSearch(ctx context.Context, s *Search) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_history
			(id, query, product_title, listing_price, item_cost, est_profit, est_margin, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Query, s.ProductTitle, s.ListingPrice, s.ItemCost, s.EstProfit, s.EstMargin, s.ResultCount, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add search: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecentSearches(ctx context.Context, limit int) ([]*Search, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query, product_title, listing_price, item_cost, est_profit, est_margin, result_count, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var result []*Search
	for rows.Next() {
		s := &Search{}
		if err := rows.Scan(&s.ID, &s.Query, &s.ProductTitle, &s.ListingPrice, &s.ItemCost,
			&s.EstProfit, &s.EstMargin, &s.ResultCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ClearSearches(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM search_history`)
	if err != nil {
		return fmt.Errorf("failed to clear searches: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddFavorite(ctx context.Context, f *Favorite) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (id, product_id, title, price, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET title = excluded.title, price = excluded.price
	`, f.ID, f.ProductID, f.Title, f.Price, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveFavorite(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Favorites(ctx context.Context) ([]*Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, title, price, created_at
		FROM favorites
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var result []*Favorite
	for rows.Next() {
		f := &Favorite{}
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Title, &f.Price, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite rows: %w", err)
	}
	return result, nil
}
