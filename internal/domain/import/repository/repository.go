// Package repository persists influencers and campaigns for the import
// pipeline.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
)

// DB is the slice of pgxpool.Pool the repositories use. pgxmock
// implements it too, so tests run against the real SQL.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Influencer is a creator known to one brand. The same person working
// with two brands is two rows; campaign history and scoring stay
// brand-scoped.
type Influencer struct {
	ID            uuid.UUID `json:"id"`
	Brand         string    `json:"brand"`
	InstaName     string    `json:"instaName"`
	TikTokName    string    `json:"tiktokName"`
	FollowerCount int       `json:"followerCount"`
	Country       string    `json:"country"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Handle returns the Instagram name, or the TikTok name when Instagram
// is absent.
func (i *Influencer) Handle() string {
	if i.InstaName != "" {
		return i.InstaName
	}
	return i.TikTokName
}

// Campaign is one gifting engagement imported from a sheet row.
// Nullable dates stay *time.Time; empty normalized dates persist as
// NULL, not zero time.
type Campaign struct {
	ID                    uuid.UUID        `json:"id"`
	InfluencerID          uuid.UUID        `json:"influencerId"`
	Brand                 string           `json:"brand"`
	ItemCode              string           `json:"itemCode"`
	Quantity              int              `json:"quantity"`
	SaleDate              *time.Time       `json:"saleDate"`
	DesiredPostDate       *time.Time       `json:"desiredPostDate"`
	AgreedDate            *time.Time       `json:"agreedDate"`
	ActualPostDate        *time.Time       `json:"actualPostDate"`
	OfferedAmount         decimal.Decimal  `json:"offeredAmount"`
	AgreedAmount          decimal.Decimal  `json:"agreedAmount"`
	Status                normalizer.Status `json:"status"`
	Likes                 int              `json:"likes"`
	Comments              int              `json:"comments"`
	ConsiderationComments int              `json:"considerationComments"`
	IsInternational       bool             `json:"isInternational"`
	ShippingCountry       *string          `json:"shippingCountry"`
	ShippingCost          *decimal.Decimal `json:"shippingCost"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// ImportRepository is the storage surface the import service depends
// on. Find methods return (nil, nil) when no row matches; absence is
// not an error during import.
type ImportRepository interface {
	FindInfluencer(ctx context.Context, brand, handle string) (*Influencer, error)
	FindInfluencerAnyBrand(ctx context.Context, handle string) (*Influencer, error)
	CreateInfluencer(ctx context.Context, inf *Influencer) error
	CreateCampaign(ctx context.Context, c *Campaign) error
	CountCampaigns(ctx context.Context, influencerID uuid.UUID, brand, itemCode string) (int, error)

	// ID-only variants serve the duplicate detector.
	FindInfluencerID(ctx context.Context, brand, handle string) (uuid.UUID, bool, error)
	FindInfluencerIDAnyBrand(ctx context.Context, handle string) (uuid.UUID, bool, error)
}
