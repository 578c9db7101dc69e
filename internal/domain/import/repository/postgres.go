package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresImportRepository implements ImportRepository on PostgreSQL.
type PostgresImportRepository struct {
	db DB
}

// NewPostgresImportRepository creates a new PostgreSQL import repository.
func NewPostgresImportRepository(db DB) *PostgresImportRepository {
	return &PostgresImportRepository{db: db}
}

const influencerColumns = `id, brand, insta_name, tiktok_name, follower_count, country, created_at, updated_at`

// FindInfluencer looks an influencer up by handle within one brand.
// The handle matches either the Instagram or the TikTok name,
// case-insensitively. Returns (nil, nil) when no row matches.
func (r *PostgresImportRepository) FindInfluencer(ctx context.Context, brand, handle string) (*Influencer, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE brand = $1 AND (lower(insta_name) = lower($2) OR lower(tiktok_name) = lower($2))
		LIMIT 1`

	inf, err := r.scanInfluencer(r.db.QueryRow(ctx, query, brand, handle))
	if err != nil {
		return nil, fmt.Errorf("failed to find influencer %s: %w", handle, err)
	}
	return inf, nil
}

// FindInfluencerAnyBrand is the brand-less fallback lookup.
func (r *PostgresImportRepository) FindInfluencerAnyBrand(ctx context.Context, handle string) (*Influencer, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE lower(insta_name) = lower($1) OR lower(tiktok_name) = lower($1)
		ORDER BY created_at
		LIMIT 1`

	inf, err := r.scanInfluencer(r.db.QueryRow(ctx, query, handle))
	if err != nil {
		return nil, fmt.Errorf("failed to find influencer %s: %w", handle, err)
	}
	return inf, nil
}

func (r *PostgresImportRepository) scanInfluencer(row pgx.Row) (*Influencer, error) {
	inf := &Influencer{}
	err := row.Scan(
		&inf.ID,
		&inf.Brand,
		&inf.InstaName,
		&inf.TikTokName,
		&inf.FollowerCount,
		&inf.Country,
		&inf.CreatedAt,
		&inf.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inf, nil
}

// CreateInfluencer inserts a new influencer.
func (r *PostgresImportRepository) CreateInfluencer(ctx context.Context, inf *Influencer) error {
	query := `
		INSERT INTO influencers (id, brand, insta_name, tiktok_name, follower_count, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if inf.ID == uuid.Nil {
		inf.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		inf.ID,
		inf.Brand,
		inf.InstaName,
		inf.TikTokName,
		inf.FollowerCount,
		inf.Country,
	).Scan(&inf.CreatedAt, &inf.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create influencer %s: %w", inf.Handle(), err)
	}
	return nil
}

// CreateCampaign inserts a new campaign row.
func (r *PostgresImportRepository) CreateCampaign(ctx context.Context, c *Campaign) error {
	query := `
		INSERT INTO campaigns (
			id, influencer_id, brand, item_code, quantity,
			sale_date, desired_post_date, agreed_date, actual_post_date,
			offered_amount, agreed_amount, status,
			likes, comments, consideration_comments,
			is_international, shipping_country, shipping_cost
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.InfluencerID,
		c.Brand,
		c.ItemCode,
		c.Quantity,
		c.SaleDate,
		c.DesiredPostDate,
		c.AgreedDate,
		c.ActualPostDate,
		c.OfferedAmount,
		c.AgreedAmount,
		string(c.Status),
		c.Likes,
		c.Comments,
		c.ConsiderationComments,
		c.IsInternational,
		c.ShippingCountry,
		c.ShippingCost,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign %s: %w", c.ItemCode, err)
	}
	return nil
}

// CountCampaigns counts persisted campaigns for one influencer, brand
// and item code.
func (r *PostgresImportRepository) CountCampaigns(ctx context.Context, influencerID uuid.UUID, brand, itemCode string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaigns
		WHERE influencer_id = $1 AND brand = $2 AND item_code = $3`

	var count int
	if err := r.db.QueryRow(ctx, query, influencerID, brand, itemCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// FindInfluencerID is the ID-only lookup the duplicate detector uses.
func (r *PostgresImportRepository) FindInfluencerID(ctx context.Context, brand, handle string) (uuid.UUID, bool, error) {
	inf, err := r.FindInfluencer(ctx, brand, handle)
	if err != nil || inf == nil {
		return uuid.Nil, false, err
	}
	return inf.ID, true, nil
}

// FindInfluencerIDAnyBrand is the brand-less ID-only lookup.
func (r *PostgresImportRepository) FindInfluencerIDAnyBrand(ctx context.Context, handle string) (uuid.UUID, bool, error) {
	inf, err := r.FindInfluencerAnyBrand(ctx, handle)
	if err != nil || inf == nil {
		return uuid.Nil, false, err
	}
	return inf.ID, true, nil
}
