package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/metrics"
)

// RankingEntry is one scored influencer in a brand ranking.
type RankingEntry struct {
	InfluencerID  uuid.UUID `json:"influencerId"`
	Handle        string    `json:"handle"`
	FollowerCount int       `json:"followerCount"`
	CampaignCount int       `json:"campaignCount"`
	Score         Score     `json:"score"`
}

// InfluencerScore is the single-influencer response, score plus the
// aggregate it came from.
type InfluencerScore struct {
	InfluencerID uuid.UUID `json:"influencerId"`
	Handle       string    `json:"handle"`
	Input        Input     `json:"input"`
	Score        Score     `json:"score"`
}

// Service computes scores and brand rankings, with a small in-memory
// cache the cron warmer keeps fresh.
type Service struct {
	repo   StatsRepository
	logger *slog.Logger

	mu       sync.RWMutex
	cache    map[string]cachedRanking
	cacheTTL time.Duration
}

type cachedRanking struct {
	entries []RankingEntry
	at      time.Time
}

// NewService creates a new scoring service.
func NewService(repo StatsRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		cache:    make(map[string]cachedRanking),
		cacheTTL: 10 * time.Minute,
	}
}

// InfluencerScore scores one influencer from their campaign history.
func (s *Service) InfluencerScore(ctx context.Context, influencerID uuid.UUID) (*InfluencerScore, error) {
	stats, err := s.repo.InfluencerStats(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	metrics.ScoreRequests.Inc()

	in := inputFromStats(stats)
	return &InfluencerScore{
		InfluencerID: stats.InfluencerID,
		Handle:       stats.Handle(),
		Input:        in,
		Score:        Compute(in),
	}, nil
}

// Rankings returns the brand's influencers scored and sorted, served
// from cache when fresh.
func (s *Service) Rankings(ctx context.Context, brand string) ([]RankingEntry, error) {
	s.mu.RLock()
	cached, ok := s.cache[brand]
	s.mu.RUnlock()
	if ok && time.Since(cached.at) < s.cacheTTL {
		return cached.entries, nil
	}
	return s.refreshBrand(ctx, brand)
}

// WarmCache recomputes rankings for every known brand. The cron
// scheduler runs it so dashboard loads hit a warm cache.
func (s *Service) WarmCache(ctx context.Context) error {
	brands, err := s.repo.Brands(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm ranking cache: %w", err)
	}
	for _, brand := range brands {
		if _, err := s.refreshBrand(ctx, brand); err != nil {
			return err
		}
	}
	s.logger.Info("ranking cache warmed", slog.Int("brands", len(brands)))
	return nil
}

func (s *Service) refreshBrand(ctx context.Context, brand string) ([]RankingEntry, error) {
	stats, err := s.repo.BrandStats(ctx, brand)
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(stats))
	for i := range stats {
		st := &stats[i]
		entries = append(entries, RankingEntry{
			InfluencerID:  st.InfluencerID,
			Handle:        st.Handle(),
			FollowerCount: st.FollowerCount,
			CampaignCount: st.CampaignCount,
			Score:         Compute(inputFromStats(st)),
		})
	}
	// Descending by score, ties broken by handle so the order is
	// stable across refreshes.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score.Total != entries[j].Score.Total {
			return entries[i].Score.Total > entries[j].Score.Total
		}
		return entries[i].Handle < entries[j].Handle
	})

	s.mu.Lock()
	s.cache[brand] = cachedRanking{entries: entries, at: time.Now()}
	s.mu.Unlock()
	return entries, nil
}

// inputFromStats turns a raw aggregate into score input. Cost per like
// is total agreed spend over total likes; either total being zero
// leaves it at zero, which Compute reads as neutral.
func inputFromStats(st *Stats) Input {
	in := Input{
		AvgConsiderationComments: st.AvgConsiderationComments,
		AvgLikes:                 st.AvgLikes,
		OnTimeRate:               DefaultOnTimeRate,
	}
	if st.TotalLikes > 0 && st.TotalAgreedAmount.IsPositive() {
		in.CostPerLike, _ = st.TotalAgreedAmount.
			Div(decimal.NewFromInt(int64(st.TotalLikes))).Float64()
	}
	if st.DatedPosts > 0 {
		in.OnTimeRate = float64(st.OnTimePosts) / float64(st.DatedPosts) * 100
	}
	return in
}
