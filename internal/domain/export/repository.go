package export

import (
	"context"
	"fmt"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

// PostgresRepository implements Repository on PostgreSQL.
type PostgresRepository struct {
	db importrepo.DB
}

// NewPostgresRepository creates a new PostgreSQL export repository.
func NewPostgresRepository(db importrepo.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListCampaignRows loads the report rows for one brand, newest sale
// first. Dates render as ISO strings and NULLs as empty cells.
func (r *PostgresRepository) ListCampaignRows(ctx context.Context, brand string) ([]CampaignRow, error) {
	query := `
		SELECT
			CASE WHEN i.insta_name <> '' THEN i.insta_name ELSE i.tiktok_name END,
			c.brand, c.item_code, c.quantity,
			COALESCE(to_char(c.sale_date, 'YYYY-MM-DD'), ''),
			COALESCE(to_char(c.actual_post_date, 'YYYY-MM-DD'), ''),
			c.status, c.offered_amount::text, c.agreed_amount::text,
			c.likes, c.comments, c.consideration_comments
		FROM campaigns c
		JOIN influencers i ON i.id = c.influencer_id
		WHERE c.brand = $1
		ORDER BY c.sale_date DESC NULLS LAST, c.created_at DESC`

	rows, err := r.db.Query(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign rows: %w", err)
	}
	defer rows.Close()

	var out []CampaignRow
	for rows.Next() {
		var row CampaignRow
		err := rows.Scan(
			&row.Handle,
			&row.Brand,
			&row.ItemCode,
			&row.Quantity,
			&row.SaleDate,
			&row.ActualPostDate,
			&row.Status,
			&row.OfferedAmount,
			&row.AgreedAmount,
			&row.Likes,
			&row.Comments,
			&row.ConsiderationComments,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list campaign rows: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list campaign rows: %w", err)
	}
	return out, nil
}
