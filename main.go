package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pricewatch/pricewatcher/config"
	"pricewatch/pricewatcher/internal/alert"
	"pricewatch/pricewatcher/internal/extract"
	"pricewatch/pricewatcher/internal/history"
	"pricewatch/pricewatcher/internal/storage"
	"pricewatch/pricewatcher/logger"
	"pricewatch/pricewatcher/services/cache"
	"pricewatch/pricewatcher/services/notifier"
	"pricewatch/pricewatcher/services/scheduler"
	"pricewatch/pricewatcher/services/tracker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("tracking_interval", cfg.TrackingInterval).
		Dur("alert_check_interval", cfg.AlertCheckInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	accessor := storage.NewAccessor(services.Store)
	histStore := history.NewStore(accessor)
	alertService := alert.NewService(accessor, services.Notifier)

	tr := tracker.NewTracker(
		accessor,
		histStore,
		alertService,
		extract.NewExtractor(),
		services.Cache,
		cfg.FetchTimeout,
		cfg.PoliteDelay,
		cfg.HostBlockTime,
	)

	sched := scheduler.NewScheduler(
		tr,
		alertService,
		services.Notifier,
		cfg.AlertCheckInterval,
		cfg.TrackingInterval,
		cfg.TrackingInitialDelay,
	)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().
		Str("signal", sig.String()).
		Msg("Received shutdown signal")
	cancel()
	sched.Stop()

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Store    *storage.RedisStore
	Cache    cache.CacheService
	Notifier *notifier.RedisNotifier
	Clicks   *notifier.ClickRouter
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Notifier != nil {
		s.Notifier.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	if cacheService == nil {
		return nil, fmt.Errorf("failed to create cache service")
	}
	services.Cache = cacheService

	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	// Initialize storage
	store := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.StorageKeyPrefix)
	if store == nil {
		return nil, fmt.Errorf("failed to create redis store")
	}
	services.Store = store

	logger.Info("Connected to Redis at %s (DB: %d, Prefix: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.StorageKeyPrefix)

	// Initialize notification publisher
	services.Clicks = notifier.NewClickRouter()
	redisNotifier := notifier.NewRedisNotifier(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.NotifyStream,
		cfg.NotifyStreamCount,
		cfg.NotifyStreamMaxLength,
		services.Clicks,
	)
	if redisNotifier == nil {
		return nil, fmt.Errorf("failed to create redis notifier")
	}
	services.Notifier = redisNotifier

	logger.Info("Publishing alerts to Redis stream %s (streams: %d)",
		cfg.NotifyStream, cfg.NotifyStreamCount)

	return services, nil
}
