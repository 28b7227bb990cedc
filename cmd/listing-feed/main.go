package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"quickgrab-listing-feed/internal/adapters/broadcaster"
	"quickgrab-listing-feed/internal/adapters/db"
	"quickgrab-listing-feed/internal/adapters/redis"
	"quickgrab-listing-feed/internal/adapters/web"
	"quickgrab-listing-feed/internal/adapters/ws"
	"quickgrab-listing-feed/internal/app"
	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(cfg.Logging)

	log.Info().Str("environment", cfg.Environment).Msg("Starting QuickGrab listing feed...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database handle is shared for the whole process and survives reloads
	if _, err := db.Shared(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection established")

	// Feed notifications are optional
	var notifier *broadcaster.RedisNotifier
	var feedSocket *ws.FeedSocketHandler
	if cfg.Redis.Enabled() {
		redisClient, err := redis.Connect(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, feed notifications disabled")
		} else {
			notifier = broadcaster.NewNotifier(broadcaster.RedisNotifierParams{
				RedisClient: redisClient,
				Logger:      log.Logger,
			})
			feedSocket = ws.NewHandler(ws.FeedSocketHandlerParams{
				Config:   cfg,
				Notifier: notifier,
				Logger:   log.Logger,
			})
			log.Info().Msg("Feed notifications enabled")
		}
	}

	router, err := buildRouter(cfg, feedSocket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	server := web.NewServer(web.ServerParams{
		Config:  cfg,
		Handler: router,
		Logger:  log.Logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	running := true
	for running {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				cfg = reload(cfg, server, feedSocket)
				continue
			}
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			running = false
		case <-ctx.Done():
			log.Info().Msg("Context cancelled")
			running = false
		}
	}

	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	if feedSocket != nil {
		feedSocket.Shutdown()
	}
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing feed notifier")
		}
	}

	if err := db.CloseShared(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Graceful shutdown completed")
}

// buildRouter assembles the request handlers on top of the shared database handle
func buildRouter(cfg *config.Config, feedSocket *ws.FeedSocketHandler) (http.Handler, error) {
	dbConn, err := db.Shared(cfg)
	if err != nil {
		return nil, err
	}

	repoFactory := db.NewRepositoryFactory(dbConn)
	feedService := app.NewFeedService(app.FeedServiceParams{
		ItemRepo: repoFactory.GetItemRepository(),
		Logger:   log.Logger,
	})

	pages, err := web.NewPageRenderer(web.PageRendererParams{
		Config:      cfg,
		FeedService: feedService,
		Logger:      log.Logger,
	})
	if err != nil {
		return nil, err
	}

	itemsAPI := web.NewItemsAPI(web.ItemsAPIParams{
		FeedService: feedService,
		Logger:      log.Logger,
	})

	return web.NewRouter(web.RouterParams{
		Pages:      pages,
		ItemsAPI:   itemsAPI,
		FeedSocket: feedSocket,
		Logger:     log.Logger,
	}), nil
}

// routerBuilder is swapped in tests
var routerBuilder = buildRouter

// reload rebuilds the handlers in development and returns the configuration
// now in effect. The listener, the database handle and connected sockets are kept.
func reload(current *config.Config, server *web.Server, feedSocket *ws.FeedSocketHandler) *config.Config {
	if current.IsProduction() {
		log.Info().Msg("Ignoring SIGHUP in production")
		return current
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Reload failed, keeping current handlers")
		return current
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Reloaded configuration is invalid, keeping current handlers")
		return current
	}

	router, err := routerBuilder(cfg, feedSocket)
	if err != nil {
		log.Error().Err(err).Msg("Reload failed, keeping current handlers")
		return current
	}

	logging.Init(cfg.Logging)
	server.SwapHandler(router)
	log.Info().Str("environment", cfg.Environment).Msg("Handlers reloaded")
	return cfg
}
