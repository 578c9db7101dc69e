// Command seed fills a development database with fake influencers and
// campaign history so the dashboard has something to rank.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/harukimedia/giftflow/internal/domain/import/normalizer"
	"github.com/harukimedia/giftflow/internal/domain/import/repository"
	"github.com/harukimedia/giftflow/pkg/config"
	"github.com/harukimedia/giftflow/pkg/db"
)

func main() {
	influencerCount := flag.Int("influencers", 40, "influencers to create")
	maxCampaigns := flag.Int("max-campaigns", 8, "max campaigns per influencer")
	brand := flag.String("brand", "Loom&Co", "brand to seed")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	database, err := db.New(db.Config{DSN: cfg.Database.DSN()}, logger)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := repository.NewPostgresImportRepository(database.Pool)
	campaigns := 0
	for i := 0; i < *influencerCount; i++ {
		inf := fakeInfluencer(*brand)
		if err := repo.CreateInfluencer(ctx, inf); err != nil {
			log.Fatalf("create influencer: %v", err)
		}
		n := gofakeit.Number(0, *maxCampaigns)
		for j := 0; j < n; j++ {
			if err := repo.CreateCampaign(ctx, fakeCampaign(inf)); err != nil {
				log.Fatalf("create campaign: %v", err)
			}
			campaigns++
		}
	}

	fmt.Printf("seeded %d influencers, %d campaigns for %s\n", *influencerCount, campaigns, *brand)
}

func fakeInfluencer(brand string) *repository.Influencer {
	handle := strings.ToLower(gofakeit.Username())
	inf := &repository.Influencer{
		Brand:         brand,
		InstaName:     handle,
		FollowerCount: gofakeit.Number(500, 200000),
		Country:       "JP",
	}
	// A few are TikTok-only, like real sheets.
	if gofakeit.Number(0, 9) == 0 {
		inf.InstaName = ""
		inf.TikTokName = handle
	}
	return inf
}

func fakeCampaign(inf *repository.Influencer) *repository.Campaign {
	saleDate := gofakeit.DateRange(
		time.Now().AddDate(-1, 0, 0),
		time.Now(),
	)
	desired := saleDate.AddDate(0, 0, gofakeit.Number(7, 21))

	c := &repository.Campaign{
		InfluencerID:          inf.ID,
		Brand:                 inf.Brand,
		ItemCode:              fmt.Sprintf("%s-%03d", gofakeit.LetterN(2), gofakeit.Number(1, 999)),
		Quantity:              gofakeit.Number(1, 3),
		SaleDate:              &saleDate,
		DesiredPostDate:       &desired,
		OfferedAmount:         decimal.NewFromInt(int64(gofakeit.Number(5, 50) * 1000)),
		Status:                normalizer.StatusAgree,
		Likes:                 gofakeit.Number(0, 5000),
		Comments:              gofakeit.Number(0, 400),
		ConsiderationComments: gofakeit.Number(0, 80),
	}
	c.AgreedAmount = c.OfferedAmount

	// Most posts land, most of those on time.
	if gofakeit.Number(0, 9) < 8 {
		actual := desired.AddDate(0, 0, gofakeit.Number(-3, 5))
		c.ActualPostDate = &actual
	}
	return c
}
