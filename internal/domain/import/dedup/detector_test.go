package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harukimedia/giftflow/internal/domain/import/mapping"
)

type fakeLookup struct {
	// influencers maps "brand|handle" (or "|handle" for any-brand) to an id.
	influencers map[string]uuid.UUID
	// counts maps "id|brand|itemCode" to an existing-campaign count.
	counts  map[string]int
	queries int
	err     error
}

func (f *fakeLookup) FindInfluencerID(_ context.Context, brand, handle string) (uuid.UUID, bool, error) {
	f.queries++
	if f.err != nil {
		return uuid.Nil, false, f.err
	}
	id, ok := f.influencers[brand+"|"+handle]
	return id, ok, nil
}

func (f *fakeLookup) FindInfluencerIDAnyBrand(_ context.Context, handle string) (uuid.UUID, bool, error) {
	f.queries++
	if f.err != nil {
		return uuid.Nil, false, f.err
	}
	id, ok := f.influencers["|"+handle]
	return id, ok, nil
}

func (f *fakeLookup) CountCampaigns(_ context.Context, id uuid.UUID, brand, itemCode string) (int, error) {
	f.queries++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[id.String()+"|"+brand+"|"+itemCode], nil
}

func rec(row int, handle, itemCode string) mapping.Record {
	return mapping.Record{RowIndex: row, InstaName: handle, Brand: "Loom&Co", ItemCode: itemCode}
}

func TestInFile_PairwiseFindings(t *testing.T) {
	records := []mapping.Record{
		rec(0, "misaki", "LC-104"),
		rec(1, "ren", "LC-104"),
		rec(2, "misaki", "LC-104"),
		rec(3, "misaki", "LC-201"),
	}

	findings := InFile(records)

	require.Len(t, findings, 1)
	assert.Equal(t, 0, findings[0].FirstRow)
	assert.Equal(t, 2, findings[0].DupRow)
	assert.Equal(t, "misaki", findings[0].Handle)
}

func TestInFile_TripleYieldsTwoFindingsAgainstFirst(t *testing.T) {
	records := []mapping.Record{
		rec(0, "misaki", "LC-104"),
		rec(1, "misaki", "LC-104"),
		rec(2, "misaki", "LC-104"),
	}

	findings := InFile(records)

	require.Len(t, findings, 2)
	assert.Equal(t, 0, findings[0].FirstRow)
	assert.Equal(t, 1, findings[0].DupRow)
	assert.Equal(t, 0, findings[1].FirstRow)
	assert.Equal(t, 2, findings[1].DupRow)
}

func TestInFile_CaseInsensitiveKey(t *testing.T) {
	records := []mapping.Record{
		rec(0, "Misaki", "lc-104"),
		rec(1, "misaki", "LC-104"),
	}
	assert.Len(t, InFile(records), 1)
}

func TestCheckStore_CountsExistingCampaigns(t *testing.T) {
	known := uuid.New()
	lookup := &fakeLookup{
		influencers: map[string]uuid.UUID{"Loom&Co|misaki": known},
		counts:      map[string]int{known.String() + "|Loom&Co|LC-104": 2},
	}
	records := []mapping.Record{
		rec(0, "misaki", "LC-104"),
		rec(1, "misaki", "LC-999"),
		rec(2, "newcomer", "LC-104"),
	}

	findings, err := CheckStore(context.Background(), lookup, records)
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, 0, findings[0].Row)
	assert.Equal(t, 2, findings[0].Count)
}

func TestCheckStore_BrandlessFallback(t *testing.T) {
	known := uuid.New()
	lookup := &fakeLookup{
		influencers: map[string]uuid.UUID{"|misaki": known},
		counts:      map[string]int{known.String() + "|Loom&Co|LC-104": 1},
	}

	findings, err := CheckStore(context.Background(), lookup, []mapping.Record{rec(0, "misaki", "LC-104")})
	require.NoError(t, err)

	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Count)
}

func TestCheckStore_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := &fakeLookup{}
	_, err := CheckStore(ctx, lookup, []mapping.Record{rec(0, "misaki", "LC-104")})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, lookup.queries, "no lookups after cancellation")
}

func TestCheckStore_LookupErrorNamesHandle(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("connection refused")}

	_, err := CheckStore(context.Background(), lookup, []mapping.Record{rec(0, "misaki", "LC-104")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "misaki")
}

func TestResult_FlaggedRows(t *testing.T) {
	r := &Result{
		InFile:  []InFileFinding{{FirstRow: 0, DupRow: 2}},
		InStore: []StoreFinding{{Row: 5, Count: 1}},
	}

	flagged := r.FlaggedRows()

	assert.Equal(t, map[int]bool{2: true, 5: true}, flagged)
	assert.False(t, flagged[0], "first occurrence of an in-file pair is not flagged")
}
