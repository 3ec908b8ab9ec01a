package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hawkolabs/hawko/internal/server"
	"github.com/hawkolabs/hawko/internal/server/handler"
)

const shutdownTimeout = 10 * time.Second

// ServeMode runs the HTTP/WebSocket API together with the whale trade poller.
// Arbitrage scans are executed on demand per request; the periodic scan loop
// belongs to scan and full modes.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "running in serve mode")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Hub.Run(ctx) })
	g.Go(func() error {
		deps.Whales.Run(ctx, a.cfg.Whale.PollInterval.Duration)
		return nil
	})
	g.Go(func() error { return a.runServer(ctx, deps) })

	return g.Wait()
}

// ScanMode runs the periodic arbitrage scan loop without the HTTP API. Scans
// are persisted and, when archival is enabled, aged out to cold storage. The
// hub still runs so completed scans are broadcast to any attached client.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "running in scan mode",
		"interval", a.cfg.Scanner.Interval.Duration,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Hub.Run(ctx) })
	g.Go(func() error {
		deps.Scans.Run(ctx, a.cfg.Scanner.Interval.Duration)
		return nil
	})
	if deps.Archiver != nil {
		g.Go(func() error { return deps.Archiver.RunCron(ctx, a.cfg.Archive.Schedule) })
	}

	return g.Wait()
}

// FullMode runs everything: the API server, the whale poller, the scan loop,
// and the archiver when enabled.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "running in full mode")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deps.Hub.Run(ctx) })
	g.Go(func() error {
		deps.Whales.Run(ctx, a.cfg.Whale.PollInterval.Duration)
		return nil
	})
	g.Go(func() error {
		deps.Scans.Run(ctx, a.cfg.Scanner.Interval.Duration)
		return nil
	})
	if deps.Archiver != nil {
		g.Go(func() error { return deps.Archiver.RunCron(ctx, a.cfg.Archive.Schedule) })
	}
	g.Go(func() error { return a.runServer(ctx, deps) })

	return g.Wait()
}

// runServer builds the HTTP server from the wired services, starts it, and
// shuts it down gracefully when the context is cancelled.
func (a *App) runServer(ctx context.Context, deps *Dependencies) error {
	if !a.cfg.Server.Enabled {
		a.logger.InfoContext(ctx, "http server disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	logger := a.logger
	handlers := server.Handlers{
		Health:      handler.NewHealthHandler(deps.HealthChecks, logger),
		Markets:     handler.NewMarketHandler(deps.Markets, logger),
		Arb:         handler.NewArbHandler(deps.Scans, logger),
		Wallet:      handler.NewWalletHandler(deps.Wallets, logger),
		Whales:      handler.NewWhaleHandler(deps.Whales, logger),
		Leaderboard: handler.NewLeaderboardHandler(deps.Leaderboard, logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.Server.RateWindow.Duration,
	}, handlers, deps.Hub, deps.RateLimiter, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: server: %w", err)
		}
		return nil
	}
}
