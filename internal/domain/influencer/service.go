package influencer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
)

// Service serves directory listings with optional handle search.
type Service struct {
	repo   Repository
	search *SearchIndex
	logger *slog.Logger
}

// NewService creates a new influencer service.
func NewService(repo Repository, search *SearchIndex, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		search: search,
		logger: logger,
	}
}

// List returns influencers for the filter. A non-empty query narrows
// the result to search hits, keeping the filter applied.
func (s *Service) List(ctx context.Context, filter ListFilter, query string) ([]importrepo.Influencer, error) {
	influencers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return influencers, nil
	}

	ids, err := s.search.Search(query, 0)
	if err != nil {
		return nil, err
	}
	hitRank := make(map[string]int, len(ids))
	for i, id := range ids {
		hitRank[id.String()] = i
	}

	matched := make([]importrepo.Influencer, 0, len(ids))
	for _, inf := range influencers {
		if _, ok := hitRank[inf.ID.String()]; ok {
			matched = append(matched, inf)
		}
	}
	// Best hit first rather than newest first.
	sortByRank(matched, hitRank)
	return matched, nil
}

// RebuildIndex reloads every influencer into the search index. Run at
// startup and on the cron schedule.
func (s *Service) RebuildIndex(ctx context.Context) error {
	influencers, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	if err := s.search.Rebuild(influencers); err != nil {
		return err
	}
	s.logger.Info("search index rebuilt", slog.Int("influencers", len(influencers)))
	return nil
}

func sortByRank(influencers []importrepo.Influencer, rank map[string]int) {
	sort.SliceStable(influencers, func(i, j int) bool {
		return rank[influencers[i].ID.String()] < rank[influencers[j].ID.String()]
	})
}
