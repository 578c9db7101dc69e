package influencer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

func inf(brand, insta, tiktok, country string) importrepo.Influencer {
	return importrepo.Influencer{
		ID: uuid.New(), Brand: brand, InstaName: insta, TikTokName: tiktok, Country: country,
	}
}

func TestSearchIndex(t *testing.T) {
	idx, err := NewSearchIndex()
	require.NoError(t, err)

	misaki := inf("Loom&Co", "misaki_style", "", "JP")
	ren := inf("Loom&Co", "ren_fashion", "ren_tok", "JP")
	require.NoError(t, idx.Rebuild([]importrepo.Influencer{misaki, ren}))

	ids, err := idx.Search("misaki", 10)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, misaki.ID, ids[0])

	// Typo within one edit still hits.
	ids, err = idx.Search("misakii", 10)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, misaki.ID, ids[0])

	ids, err = idx.Search("nobody_here", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type fakeListRepo struct {
	influencers []importrepo.Influencer
}

func (f *fakeListRepo) List(_ context.Context, filter ListFilter) ([]importrepo.Influencer, error) {
	var out []importrepo.Influencer
	for _, inf := range f.influencers {
		if filter.Brand != "" && inf.Brand != filter.Brand {
			continue
		}
		if filter.Country != "" && inf.Country != filter.Country {
			continue
		}
		out = append(out, inf)
	}
	return out, nil
}

func TestService_ListWithQuery(t *testing.T) {
	misaki := inf("Loom&Co", "misaki_style", "", "JP")
	ren := inf("Loom&Co", "ren_fashion", "", "JP")
	other := inf("OtherBrand", "misaki_other", "", "US")

	repo := &fakeListRepo{influencers: []importrepo.Influencer{misaki, ren, other}}
	idx, err := NewSearchIndex()
	require.NoError(t, err)
	svc := NewService(repo, idx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, svc.RebuildIndex(context.Background()))

	got, err := svc.List(context.Background(), ListFilter{Brand: "Loom&Co"}, "misaki")
	require.NoError(t, err)

	require.Len(t, got, 1, "search hits outside the brand filter stay excluded")
	assert.Equal(t, misaki.ID, got[0].ID)

	all, err := svc.List(context.Background(), ListFilter{Brand: "Loom&Co"}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
