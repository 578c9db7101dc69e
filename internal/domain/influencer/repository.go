// Package influencer serves the dashboard's influencer directory.
package influencer

import (
	"context"
	"fmt"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

// ListFilter narrows a directory listing. Zero values mean no filter.
type ListFilter struct {
	Brand   string
	Country string
}

// Repository loads influencers for the directory.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]importrepo.Influencer, error)
}

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	db importrepo.DB
}

// NewPostgresRepository creates a new PostgreSQL influencer repository.
func NewPostgresRepository(db importrepo.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns influencers matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]importrepo.Influencer, error) {
	query := `
		SELECT id, brand, insta_name, tiktok_name, follower_count, country, created_at, updated_at
		FROM influencers
		WHERE ($1 = '' OR brand = $1)
		  AND ($2 = '' OR country = $2)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, filter.Brand, filter.Country)
	if err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	defer rows.Close()

	var out []importrepo.Influencer
	for rows.Next() {
		var inf importrepo.Influencer
		err := rows.Scan(
			&inf.ID,
			&inf.Brand,
			&inf.InstaName,
			&inf.TikTokName,
			&inf.FollowerCount,
			&inf.Country,
			&inf.CreatedAt,
			&inf.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list influencers: %w", err)
		}
		out = append(out, inf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	return out, nil
}
