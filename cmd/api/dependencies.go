package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/export"
	exporthandler "github.com/harukimedia/giftflow/internal/domain/export/handler"
	"github.com/harukimedia/giftflow/internal/domain/influencer"
	influencerhandler "github.com/harukimedia/giftflow/internal/domain/influencer/handler"
	importhandler "github.com/harukimedia/giftflow/internal/domain/import/handler"
	importrepo "github.com/harukimedia/giftflow/internal/domain/import/repository"
	importservice "github.com/harukimedia/giftflow/internal/domain/import/service"
	"github.com/harukimedia/giftflow/internal/domain/scoring"
	scoringhandler "github.com/harukimedia/giftflow/internal/domain/scoring/handler"
	"github.com/harukimedia/giftflow/pkg/config"
	"github.com/harukimedia/giftflow/pkg/cron"
	"github.com/harukimedia/giftflow/pkg/db"
	"github.com/harukimedia/giftflow/pkg/notify"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	ImportRepo     importrepo.ImportRepository
	StatsRepo      scoring.StatsRepository
	InfluencerRepo influencer.Repository
	ExportRepo     export.Repository

	// Services
	ImportService     *importservice.ImportService
	ScoringService    *scoring.Service
	InfluencerService *influencer.Service
	ExportService     *export.Service
	Scheduler         *cron.Scheduler

	// Handlers
	ImportHandler     *importhandler.ImportHandler
	ScoreHandler      *scoringhandler.ScoreHandler
	InfluencerHandler *influencerhandler.InfluencerHandler
	ExportHandler     *exporthandler.ExportHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes repositories and the service layer
func (d *Dependencies) initServices() error {
	d.ImportRepo = importrepo.NewPostgresImportRepository(d.DB.Pool)
	d.StatsRepo = scoring.NewPostgresStatsRepository(d.DB.Pool)
	d.InfluencerRepo = influencer.NewPostgresRepository(d.DB.Pool)
	d.ExportRepo = export.NewPostgresRepository(d.DB.Pool)

	d.ImportService = importservice.NewImportService(d.ImportRepo, d.Logger)
	if notifier := notify.NewEmailNotifier(d.Config.Notify, d.Logger); notifier != nil {
		d.ImportService.SetNotifier(notifier)
	}

	d.ScoringService = scoring.NewService(d.StatsRepo, d.Logger)

	searchIndex, err := influencer.NewSearchIndex()
	if err != nil {
		return err
	}
	d.InfluencerService = influencer.NewService(d.InfluencerRepo, searchIndex, d.Logger)

	d.ExportService = export.NewService(d.ExportRepo)

	d.Scheduler = cron.NewScheduler(d.ScoringService, d.InfluencerService, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	importDefaults := importhandler.Defaults{
		DayFirst:                   d.Config.Import.DayFirstDates,
		InternationalShippingBrand: d.Config.Import.InternationalShippingBrand,
		ShippingCountry:            d.Config.Import.DefaultShippingCountry,
	}
	if raw := d.Config.Import.DefaultShippingCost; raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			d.Logger.Warn("invalid default shipping cost, ignoring", slog.String("value", raw))
		} else {
			importDefaults.ShippingCost = cost
		}
	}
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, importDefaults, d.Logger)
	d.ScoreHandler = scoringhandler.NewScoreHandler(d.ScoringService, d.Logger)
	d.InfluencerHandler = influencerhandler.NewInfluencerHandler(d.InfluencerService, d.Logger)
	d.ExportHandler = exporthandler.NewExportHandler(d.ExportService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
