package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"quickgrab-listing-feed/internal/adapters/broadcaster"
	"quickgrab-listing-feed/internal/adapters/db"
	"quickgrab-listing-feed/internal/adapters/redis"
	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/logging"
	"quickgrab-listing-feed/internal/ports/outbound"
)

func main() {
	sellerCount := flag.Int("sellers", 5, "number of sellers to create")
	itemCount := flag.Int("items", 25, "number of items to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = run(ctx, cfg, *sellerCount, *itemCount)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().Int("sellers", *sellerCount).Int("items", *itemCount).Msg("Seeding completed")
}

// run creates the schema and seeds it. Any failure is returned so main exits non-zero.
func run(ctx context.Context, cfg *config.Config, sellerCount, itemCount int) error {
	if sellerCount < 1 || itemCount < 0 {
		return fmt.Errorf("invalid counts: sellers=%d items=%d", sellerCount, itemCount)
	}

	dbConn, err := db.Shared(cfg)
	if err != nil {
		return err
	}
	defer db.CloseShared()

	if err := dbConn.EnsureSchema(ctx); err != nil {
		return err
	}

	var notifier outbound.FeedNotifier
	if cfg.Redis.Enabled() {
		redisClient, err := redis.Connect(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, skipping feed events")
		} else {
			redisNotifier := broadcaster.NewNotifier(broadcaster.RedisNotifierParams{
				RedisClient: redisClient,
				Logger:      log.Logger,
			})
			defer redisNotifier.Close()
			notifier = redisNotifier
		}
	}

	repoFactory := db.NewRepositoryFactory(dbConn)
	s := newSeeder(seederParams{
		SellerRepo: repoFactory.GetSellerRepository(),
		ItemRepo:   repoFactory.GetItemRepository(),
		Notifier:   notifier,
		Logger:     log.Logger,
	})

	_, err = s.Seed(ctx, sellerCount, itemCount, time.Now().UTC())
	return err
}
