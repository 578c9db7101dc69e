// Package dedup flags probable duplicate campaign rows, both inside a
// single upload and against already persisted campaigns. Findings are
// advisory; the import executor decides whether flagged rows are
// skipped.
package dedup

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harukimedia/giftflow/internal/domain/import/mapping"
)

// CampaignLookup is the slice of storage the detector needs. The
// postgres import repository satisfies it.
type CampaignLookup interface {
	FindInfluencerID(ctx context.Context, brand, handle string) (uuid.UUID, bool, error)
	FindInfluencerIDAnyBrand(ctx context.Context, handle string) (uuid.UUID, bool, error)
	CountCampaigns(ctx context.Context, influencerID uuid.UUID, brand, itemCode string) (int, error)
}

// InFileFinding pairs a row with the earlier row it duplicates. Three
// identical rows yield two findings, both pointing at the first.
type InFileFinding struct {
	FirstRow int    `json:"firstRow"`
	DupRow   int    `json:"dupRow"`
	Handle   string `json:"handle"`
	ItemCode string `json:"itemCode"`
}

// StoreFinding reports a row whose influencer already has persisted
// campaigns for the same brand and item code.
type StoreFinding struct {
	Row      int    `json:"row"`
	Handle   string `json:"handle"`
	ItemCode string `json:"itemCode"`
	Count    int    `json:"count"`
}

// Result carries both finding sets for one upload.
type Result struct {
	InFile  []InFileFinding `json:"inFile"`
	InStore []StoreFinding  `json:"inStore"`
}

// FlaggedRows collects the row indices appearing in either finding
// set. Only the later row of an in-file pair is flagged, so skipping
// flagged rows still imports the first occurrence.
func (r *Result) FlaggedRows() map[int]bool {
	flagged := make(map[int]bool, len(r.InFile)+len(r.InStore))
	for _, f := range r.InFile {
		flagged[f.DupRow] = true
	}
	for _, f := range r.InStore {
		flagged[f.Row] = true
	}
	return flagged
}

// InFile scans the records for repeated (handle, item code) keys,
// case-insensitively. Each later occurrence is reported against the
// first-seen row.
func InFile(records []mapping.Record) []InFileFinding {
	firstSeen := make(map[string]int, len(records))
	var findings []InFileFinding

	for i := range records {
		rec := &records[i]
		key := dupKey(rec.Handle(), rec.ItemCode)
		if first, ok := firstSeen[key]; ok {
			findings = append(findings, InFileFinding{
				FirstRow: first,
				DupRow:   rec.RowIndex,
				Handle:   rec.Handle(),
				ItemCode: rec.ItemCode,
			})
			continue
		}
		firstSeen[key] = rec.RowIndex
	}
	return findings
}

// CheckStore looks each record up against persisted campaigns, one or
// two queries per row, strictly sequentially. Fine at the tens-to-low-
// hundreds of rows an upload carries; the context check between rows
// lets a caller abandon a slow pass.
func CheckStore(ctx context.Context, lookup CampaignLookup, records []mapping.Record) ([]StoreFinding, error) {
	var findings []StoreFinding

	for i := range records {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		rec := &records[i]

		id, found, err := lookupInfluencer(ctx, lookup, rec.Brand, rec.Handle())
		if err != nil {
			return findings, fmt.Errorf("duplicate check for %s: %w", rec.Handle(), err)
		}
		if !found {
			continue
		}

		count, err := lookup.CountCampaigns(ctx, id, rec.Brand, rec.ItemCode)
		if err != nil {
			return findings, fmt.Errorf("duplicate check for %s: %w", rec.Handle(), err)
		}
		if count > 0 {
			findings = append(findings, StoreFinding{
				Row:      rec.RowIndex,
				Handle:   rec.Handle(),
				ItemCode: rec.ItemCode,
				Count:    count,
			})
		}
	}
	return findings, nil
}

// Check runs both passes.
func Check(ctx context.Context, lookup CampaignLookup, records []mapping.Record) (*Result, error) {
	inStore, err := CheckStore(ctx, lookup, records)
	if err != nil {
		return nil, err
	}
	return &Result{InFile: InFile(records), InStore: inStore}, nil
}

// lookupInfluencer tries the brand-scoped lookup first and falls back
// to a brand-less one, so sheets missing a brand column still match.
func lookupInfluencer(ctx context.Context, lookup CampaignLookup, brand, handle string) (uuid.UUID, bool, error) {
	if brand != "" {
		id, found, err := lookup.FindInfluencerID(ctx, brand, handle)
		if err != nil || found {
			return id, found, err
		}
	}
	return lookup.FindInfluencerIDAnyBrand(ctx, handle)
}

func dupKey(handle, itemCode string) string {
	return strings.ToLower(handle) + "|" + strings.ToLower(itemCode)
}
