package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hawkolabs/hawko/internal/arbitrage"
	s3blob "github.com/hawkolabs/hawko/internal/blob/s3"
	"github.com/hawkolabs/hawko/internal/cache/redis"
	"github.com/hawkolabs/hawko/internal/config"
	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/notify"
	"github.com/hawkolabs/hawko/internal/pipeline"
	"github.com/hawkolabs/hawko/internal/platform/kalshi"
	"github.com/hawkolabs/hawko/internal/platform/polymarket"
	"github.com/hawkolabs/hawko/internal/server/handler"
	"github.com/hawkolabs/hawko/internal/server/ws"
	"github.com/hawkolabs/hawko/internal/service"
	"github.com/hawkolabs/hawko/internal/store/postgres"
)

// Dependencies bundles every component the application modes need to operate.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores and caches
	OpportunityStore domain.OpportunityStore
	WhaleLog         domain.WhaleLog
	FeedCache        domain.FeedCache
	RateLimiter      domain.RateLimiter

	// Services
	Markets     *service.MarketService
	Wallets     *service.WalletService
	Whales      *service.WhaleService
	Leaderboard *service.LeaderboardService
	Scans       *service.ScanService

	// WebSocket fan-out
	Hub *ws.Hub

	// Archiver is nil unless archival is enabled in the configuration.
	Archiver *pipeline.Archiver

	// HealthChecks feed the /api/health dependency report.
	HealthChecks []handler.DependencyCheck

	// Notifier is nil unless at least one notification channel is configured.
	Notifier *notify.Notifier
}

// needsS3 returns true when the configuration requires object storage.
func needsS3(cfg *config.Config) bool {
	return cfg.Archive.Enabled
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

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.PostgresDSN(),
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
	deps.OpportunityStore = postgres.NewOpportunityStore(pgClient.Pool())
	deps.HealthChecks = append(deps.HealthChecks, handler.DependencyCheck{Name: "postgres", Check: pgClient.Ping})

	// --- Redis ---
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

	retention := time.Duration(cfg.Whale.RetentionDays) * 24 * time.Hour
	deps.WhaleLog = redis.NewWhaleLog(redisClient, cfg.Whale.MaxAlerts, retention)
	deps.FeedCache = redis.NewFeedCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.HealthChecks = append(deps.HealthChecks, handler.DependencyCheck{Name: "redis", Check: redisClient.Ping})

	// --- Platform clients ---
	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	data := polymarket.NewDataClient(cfg.Polymarket.DataHost, cfg.Polymarket.PnLHost)
	kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL)

	// --- Arbitrage engine ---
	engine := arbitrage.NewEngine(arbitrage.Config{
		ScanTimeout:     cfg.Scanner.ScanTimeout.Duration,
		FetchLimit:      cfg.Scanner.FetchLimit,
		PriceTolerance:  cfg.Scanner.PriceTolerance,
		FeeAllowance:    cfg.Scanner.FeeAllowance,
		MinStrictSpread: cfg.Scanner.MinStrictSpread,
		Matcher: arbitrage.MatcherConfig{
			EndDateWindow:   time.Duration(cfg.Scanner.EndDateWindowHours) * time.Hour,
			LooseThreshold:  cfg.Scanner.LooseThreshold,
			StrictThreshold: cfg.Scanner.StrictThreshold,
		},
	}, []arbitrage.SourceAdapter{gamma, kalshiClient}, logger)

	scanMode := domain.ParseMode(cfg.Scanner.Mode)

	// --- WebSocket hub ---
	deps.Hub = ws.NewHub(cfg.Scanner.Mode, logger)

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

	var bus service.Broadcaster = deps.Hub
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
		alerter := notify.NewAlerter(deps.Notifier, cfg.Notify.MinSpread, logger)
		bus = service.Fanout{deps.Hub, alerter}
	}

	// --- Services ---
	deps.Markets = service.NewMarketService(
		[]service.MarketFetcher{gamma, kalshiClient},
		deps.FeedCache,
		cfg.Cache.MarketsTTL.Duration,
		logger,
	)
	deps.Wallets = service.NewWalletService(data, logger)
	deps.Whales = service.NewWhaleService(data, deps.WhaleLog, bus, cfg.Whale.MinAmountUSD, logger)
	deps.Leaderboard = service.NewLeaderboardService(data, deps.FeedCache, cfg.Cache.LeaderboardTTL.Duration, logger)
	deps.Scans = service.NewScanService(engine, deps.OpportunityStore, bus, scanMode, logger)

	// --- S3 cold storage (only when archival is enabled) ---
	if needsS3(cfg) {
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

		if err := s3Client.Health(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3 health: %w", err)
		}

		cold := s3blob.NewArchiver(s3blob.NewWriter(s3Client), deps.OpportunityStore, deps.WhaleLog)
		deps.Archiver = pipeline.NewArchiver(cold, deps.OpportunityStore, deps.WhaleLog, cfg.Archive.RetentionDays, logger)
	}

	return deps, cleanup, nil
}
