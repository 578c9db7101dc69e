package scoring

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	stats      map[uuid.UUID]*Stats
	brandCalls int
}

func (f *fakeStatsRepo) InfluencerStats(_ context.Context, id uuid.UUID) (*Stats, error) {
	st, ok := f.stats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

func (f *fakeStatsRepo) BrandStats(_ context.Context, brand string) ([]Stats, error) {
	f.brandCalls++
	var out []Stats
	for _, st := range f.stats {
		if st.Brand == brand {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (f *fakeStatsRepo) Brands(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, st := range f.stats {
		if !seen[st.Brand] {
			seen[st.Brand] = true
			out = append(out, st.Brand)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stat(brand, handle string, avgComments, avgLikes float64) *Stats {
	return &Stats{
		InfluencerID:             uuid.New(),
		Brand:                    brand,
		InstaName:                handle,
		CampaignCount:            3,
		AvgConsiderationComments: avgComments,
		AvgLikes:                 avgLikes,
	}
}

func TestInfluencerScore(t *testing.T) {
	st := stat("Loom&Co", "misaki", 50, 1000)
	st.TotalAgreedAmount = decimal.NewFromInt(150000)
	st.TotalLikes = 3000
	st.DatedPosts = 4
	st.OnTimePosts = 4

	repo := &fakeStatsRepo{stats: map[uuid.UUID]*Stats{st.InfluencerID: st}}
	svc := NewService(repo, testLogger())

	got, err := svc.InfluencerScore(context.Background(), st.InfluencerID)
	require.NoError(t, err)

	// 150000 / 3000 likes = 50 per like → full efficiency.
	assert.Equal(t, 100, got.Score.Total)
	assert.Equal(t, RankS, got.Score.Rank)
	assert.Equal(t, 50.0, got.Input.CostPerLike)
	assert.Equal(t, 100.0, got.Input.OnTimeRate)
	assert.Equal(t, "misaki", got.Handle)
}

func TestInfluencerScore_NoHistoryDefaults(t *testing.T) {
	st := stat("Loom&Co", "fresh", 0, 0)
	repo := &fakeStatsRepo{stats: map[uuid.UUID]*Stats{st.InfluencerID: st}}
	svc := NewService(repo, testLogger())

	got, err := svc.InfluencerScore(context.Background(), st.InfluencerID)
	require.NoError(t, err)

	assert.Equal(t, DefaultOnTimeRate, got.Input.OnTimeRate)
	assert.Zero(t, got.Input.CostPerLike)
	assert.Equal(t, 22, got.Score.Total)
	assert.Equal(t, RankC, got.Score.Rank)
}

func TestInfluencerScore_NotFound(t *testing.T) {
	svc := NewService(&fakeStatsRepo{stats: map[uuid.UUID]*Stats{}}, testLogger())
	_, err := svc.InfluencerScore(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRankings_OrderAndTieBreak(t *testing.T) {
	a := stat("Loom&Co", "zoe", 50, 1000)
	b := stat("Loom&Co", "anna", 50, 1000) // same score as zoe
	c := stat("Loom&Co", "mid", 10, 200)
	other := stat("OtherBrand", "elsewhere", 50, 1000)

	repo := &fakeStatsRepo{stats: map[uuid.UUID]*Stats{
		a.InfluencerID: a, b.InfluencerID: b, c.InfluencerID: c, other.InfluencerID: other,
	}}
	svc := NewService(repo, testLogger())

	entries, err := svc.Rankings(context.Background(), "Loom&Co")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "anna", entries[0].Handle, "ties break by handle")
	assert.Equal(t, "zoe", entries[1].Handle)
	assert.Equal(t, "mid", entries[2].Handle)
	assert.GreaterOrEqual(t, entries[0].Score.Total, entries[2].Score.Total)
}

func TestRankings_CacheServesSecondCall(t *testing.T) {
	st := stat("Loom&Co", "misaki", 50, 1000)
	repo := &fakeStatsRepo{stats: map[uuid.UUID]*Stats{st.InfluencerID: st}}
	svc := NewService(repo, testLogger())

	_, err := svc.Rankings(context.Background(), "Loom&Co")
	require.NoError(t, err)
	_, err = svc.Rankings(context.Background(), "Loom&Co")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.brandCalls, "second call hits the cache")
}

func TestWarmCache(t *testing.T) {
	a := stat("Loom&Co", "misaki", 50, 1000)
	b := stat("OtherBrand", "ren", 10, 100)
	repo := &fakeStatsRepo{stats: map[uuid.UUID]*Stats{a.InfluencerID: a, b.InfluencerID: b}}
	svc := NewService(repo, testLogger())

	require.NoError(t, svc.WarmCache(context.Background()))
	calls := repo.brandCalls

	_, err := svc.Rankings(context.Background(), "Loom&Co")
	require.NoError(t, err)
	_, err = svc.Rankings(context.Background(), "OtherBrand")
	require.NoError(t, err)

	assert.Equal(t, calls, repo.brandCalls, "warmed cache serves both brands")
}
