// Package server assembles the HTTP API for the dashboard.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/server/handler"
	"github.com/hawkolabs/hawko/internal/server/middleware"
	"github.com/hawkolabs/hawko/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health      *handler.HealthHandler
	Markets     *handler.MarketHandler
	Arb         *handler.ArbHandler
	Wallet      *handler.WalletHandler
	Whales      *handler.WhaleHandler
	Leaderboard *handler.LeaderboardHandler
}

// Server is the HTTP + WebSocket API server for the dashboard.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, rate limiting) and attaches the
// WebSocket hub. limiter may be nil to disable rate limiting.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// --- Register routes ---

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Market feed.
	mux.HandleFunc("GET /api/markets", handlers.Markets.ListMarkets)
	mux.HandleFunc("GET /api/markets/metadata", handlers.Markets.Metadata)

	// Arbitrage scans.
	mux.HandleFunc("GET /api/arbitrage", handlers.Arb.Scan)
	mux.HandleFunc("GET /api/arbitrage/history", handlers.Arb.History)

	// Wallet checker.
	mux.HandleFunc("GET /api/wallet", handlers.Wallet.Report)

	// Whale alert log.
	mux.HandleFunc("GET /api/whale-alerts", handlers.Whales.List)
	mux.HandleFunc("POST /api/whale-alerts", handlers.Whales.Record)

	// Leaderboard.
	mux.HandleFunc("GET /api/leaderboard", handlers.Leaderboard.Top)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	// Build the middleware chain.
	var h http.Handler = mux

	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
