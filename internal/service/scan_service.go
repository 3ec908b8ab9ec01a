package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// scanner is the slice of the arbitrage engine the services need.
type scanner interface {
	Scan(ctx context.Context, mode domain.Mode) (domain.Scan, error)
}

// ScanService runs arbitrage scans on demand and on a schedule. Scheduled
// scans are persisted to the history store and pushed to websocket
// subscribers; on-demand scans are not persisted.
type ScanService struct {
	engine scanner
	store  domain.OpportunityStore
	bus    Broadcaster
	mode   domain.Mode
	logger *slog.Logger
}

// NewScanService creates a ScanService. store and bus may be nil when
// running without persistence or without the server.
func NewScanService(engine scanner, store domain.OpportunityStore, bus Broadcaster, mode domain.Mode, logger *slog.Logger) *ScanService {
	return &ScanService{
		engine: engine,
		store:  store,
		bus:    bus,
		mode:   mode,
		logger: logger,
	}
}

// Live runs a scan in the requested mode and returns it without persisting.
func (s *ScanService) Live(ctx context.Context, mode domain.Mode) (domain.Scan, error) {
	scan, err := s.engine.Scan(ctx, mode)
	if err != nil {
		return domain.Scan{}, fmt.Errorf("scan_service: live scan: %w", err)
	}
	return scan, nil
}

// RunOnce runs one scheduled scan in the configured mode, stores it, and
// broadcasts the result. Persistence failures are logged but do not fail the
// scan.
func (s *ScanService) RunOnce(ctx context.Context) (domain.Scan, error) {
	scan, err := s.engine.Scan(ctx, s.mode)
	if err != nil {
		return domain.Scan{}, fmt.Errorf("scan_service: scheduled scan: %w", err)
	}

	if s.store != nil {
		if err := s.store.InsertScan(ctx, scan); err != nil {
			s.logger.ErrorContext(ctx, "scan_service: persist scan failed",
				slog.String("scan_id", scan.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.bus != nil {
		s.bus.Broadcast("scan", scan)
	}
	return scan, nil
}

// History returns the most recent persisted scans, newest first.
func (s *ScanService) History(ctx context.Context, limit int) ([]domain.Scan, error) {
	if s.store == nil {
		return []domain.Scan{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	scans, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("scan_service: history: %w", err)
	}
	if scans == nil {
		scans = []domain.Scan{}
	}
	return scans, nil
}

// Run executes scheduled scans at the given interval until the context is
// cancelled. The first scan fires immediately.
func (s *ScanService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.ErrorContext(ctx, "scan_service: scan failed",
				slog.String("error", err.Error()),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
