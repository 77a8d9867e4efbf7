package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/moonshotbot/internal/blob/s3"
	"github.com/alanyoungcy/moonshotbot/internal/cache/redis"
	"github.com/alanyoungcy/moonshotbot/internal/config"
	"github.com/alanyoungcy/moonshotbot/internal/domain"
	"github.com/alanyoungcy/moonshotbot/internal/notify"
	"github.com/alanyoungcy/moonshotbot/internal/platform/polymarket"
	"github.com/alanyoungcy/moonshotbot/internal/scanner"
	"github.com/alanyoungcy/moonshotbot/internal/service"
	"github.com/alanyoungcy/moonshotbot/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
// Optional backends (cache, bus, store, archiver) stay nil when their section
// is disabled; the services degrade gracefully around them.
type Dependencies struct {
	ScanSvc     *service.ScanService
	StrategySvc *service.StrategyService

	ScanCache     domain.ScanCache
	SignalBus     domain.SignalBus
	RateLimiter   domain.RateLimiter
	StrategyStore domain.StrategyStore
	Notifier      *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL (strategy persistence) ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.StrategyStore = postgres.NewStrategyStore(pgClient)
	}

	// --- Redis (scan cache, signal bus, rate limiter) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.ScanCache = redis.NewScanCache(redisClient, 0)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	}

	// --- S3 blob storage (snapshot archival) ---
	var archiver domain.SnapshotArchiver
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		archiver = s3blob.NewSnapshotArchiver(s3blob.NewWriter(s3Client))
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Services ---
	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)

	deps.ScanSvc = service.NewScanService(
		gamma,
		scanner.New(logger),
		deps.ScanCache,
		deps.SignalBus,
		archiver,
		deps.Notifier,
		service.ScanConfig{
			Filters: scanner.Filters{
				MaxPrice:  cfg.Moonshot.MaxPrice,
				MinVolume: cfg.Moonshot.MinVolume,
				MinDays:   cfg.Moonshot.MinDays,
			},
			MaxResults: cfg.Moonshot.MaxResults,
			FetchLimit: cfg.Polymarket.FetchLimit,
			EdgeAlert:  cfg.Moonshot.EdgeAlert,
		},
		logger,
	)

	deps.StrategySvc = service.NewStrategyService(deps.StrategyStore, deps.Notifier, logger)

	return deps, cleanup, nil
}
