// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/harukimedia/giftflow/internal/domain/influencer"
	"github.com/harukimedia/giftflow/internal/domain/scoring"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron          *cron.Cron
	scoringSvc    *scoring.Service
	influencerSvc *influencer.Service
	logger        *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(scoringSvc *scoring.Service, influencerSvc *influencer.Service, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:          c,
		scoringSvc:    scoringSvc,
		influencerSvc: influencerSvc,
		logger:        logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Ranking cache warm: every 10 minutes, matching the cache TTL.
	if _, err := s.cron.AddFunc("*/10 * * * *", s.warmRankings); err != nil {
		return err
	}
	// Search index rebuild: hourly; imports between rebuilds surface
	// through the listing, just not through free-text search.
	if _, err := s.cron.AddFunc("0 * * * *", s.rebuildSearchIndex); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers both jobs immediately, used at startup so the first
// dashboard load is warm.
func (s *Scheduler) RunNow() {
	go func() {
		s.warmRankings()
		s.rebuildSearchIndex()
	}()
}

func (s *Scheduler) warmRankings() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.scoringSvc.WarmCache(ctx); err != nil {
		s.logger.Error("failed to warm ranking cache", slog.Any("error", err))
	}
}

func (s *Scheduler) rebuildSearchIndex() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.influencerSvc.RebuildIndex(ctx); err != nil {
		s.logger.Error("failed to rebuild search index", slog.Any("error", err))
	}
}
