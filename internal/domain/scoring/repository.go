package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

// Stats is the raw campaign aggregate for one influencer, before it is
// turned into a score Input.
type Stats struct {
	InfluencerID             uuid.UUID
	Brand                    string
	InstaName                string
	TikTokName               string
	FollowerCount            int
	CampaignCount            int
	AvgConsiderationComments float64
	AvgLikes                 float64
	TotalAgreedAmount        decimal.Decimal
	TotalLikes               int
	DatedPosts               int
	OnTimePosts              int
}

// Handle mirrors the influencer handle preference: Instagram first.
func (s *Stats) Handle() string {
	if s.InstaName != "" {
		return s.InstaName
	}
	return s.TikTokName
}

// StatsRepository loads campaign aggregates for scoring.
type StatsRepository interface {
	InfluencerStats(ctx context.Context, influencerID uuid.UUID) (*Stats, error)
	BrandStats(ctx context.Context, brand string) ([]Stats, error)
	Brands(ctx context.Context) ([]string, error)
}

// ErrNotFound is returned when the influencer does not exist.
var ErrNotFound = errors.New("scoring: influencer not found")

// PostgresStatsRepository implements StatsRepository on PostgreSQL.
type PostgresStatsRepository struct {
	db importrepo.DB
}

// NewPostgresStatsRepository creates a new PostgreSQL stats repository.
func NewPostgresStatsRepository(db importrepo.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// statsQuery aggregates per influencer. On-time means the actual post
// landed on or before the desired date; rows lacking either date do not
// count toward the rate.
const statsQuery = `
	SELECT
		i.id, i.brand, i.insta_name, i.tiktok_name, i.follower_count,
		COUNT(c.id),
		COALESCE(AVG(c.consideration_comments), 0),
		COALESCE(AVG(c.likes), 0),
		COALESCE(SUM(c.agreed_amount), 0),
		COALESCE(SUM(c.likes), 0),
		COUNT(c.id) FILTER (WHERE c.actual_post_date IS NOT NULL AND c.desired_post_date IS NOT NULL),
		COUNT(c.id) FILTER (WHERE c.actual_post_date IS NOT NULL AND c.desired_post_date IS NOT NULL
			AND c.actual_post_date <= c.desired_post_date)
	FROM influencers i
	LEFT JOIN campaigns c ON c.influencer_id = i.id`

// InfluencerStats loads the aggregate for one influencer.
func (r *PostgresStatsRepository) InfluencerStats(ctx context.Context, influencerID uuid.UUID) (*Stats, error) {
	query := statsQuery + `
	WHERE i.id = $1
	GROUP BY i.id, i.brand, i.insta_name, i.tiktok_name, i.follower_count`

	stats, err := scanStats(r.db.QueryRow(ctx, query, influencerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load influencer stats: %w", err)
	}
	return stats, nil
}

// BrandStats loads aggregates for every influencer of one brand.
func (r *PostgresStatsRepository) BrandStats(ctx context.Context, brand string) ([]Stats, error) {
	query := statsQuery + `
	WHERE i.brand = $1
	GROUP BY i.id, i.brand, i.insta_name, i.tiktok_name, i.follower_count`

	rows, err := r.db.Query(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand stats: %w", err)
	}
	defer rows.Close()

	var out []Stats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to load brand stats: %w", err)
		}
		out = append(out, *stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load brand stats: %w", err)
	}
	return out, nil
}

// Brands lists the distinct brands with influencers; the ranking cache
// warmer iterates over it.
func (r *PostgresStatsRepository) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT brand FROM influencers ORDER BY brand`)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to list brands: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func scanStats(row pgx.Row) (*Stats, error) {
	s := &Stats{}
	err := row.Scan(
		&s.InfluencerID,
		&s.Brand,
		&s.InstaName,
		&s.TikTokName,
		&s.FollowerCount,
		&s.CampaignCount,
		&s.AvgConsiderationComments,
		&s.AvgLikes,
		&s.TotalAgreedAmount,
		&s.TotalLikes,
		&s.DatedPosts,
		&s.OnTimePosts,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
