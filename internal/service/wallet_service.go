package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/hawkolabs/hawko/internal/platform/polymarket"
)

// walletDataAPI is the slice of the Polymarket Data API the wallet checker
// needs.
type walletDataAPI interface {
	WalletStats(ctx context.Context, address string) (polymarket.APILeaderboardEntry, error)
	OpenPositions(ctx context.Context, address string) ([]domain.Position, error)
	ClosedPositions(ctx context.Context, address string) ([]domain.Position, error)
	PortfolioValue(ctx context.Context, address string) (float64, error)
	PnLHistory(ctx context.Context, address string) ([]domain.PnLPoint, error)
}

// WalletService aggregates a wallet's positions, PnL timeline, and summary
// statistics from the exchange data APIs.
type WalletService struct {
	data   walletDataAPI
	logger *slog.Logger
}

// NewWalletService creates a WalletService backed by the given data API.
func NewWalletService(data walletDataAPI, logger *slog.Logger) *WalletService {
	return &WalletService{data: data, logger: logger}
}

// Report fetches everything the wallet page displays in one call. The five
// upstream requests run concurrently; auxiliary feeds (stats, portfolio
// value, PnL timeline) degrade to zero values on failure, but the report
// fails if neither positions feed is reachable.
func (s *WalletService) Report(ctx context.Context, address string) (domain.WalletReport, error) {
	if !common.IsHexAddress(address) {
		return domain.WalletReport{}, fmt.Errorf("wallet_service: %q: %w", address, domain.ErrInvalidAddress)
	}
	address = common.HexToAddress(address).Hex()

	var (
		stats     polymarket.APILeaderboardEntry
		open      []domain.Position
		closed    []domain.Position
		value     float64
		pnl       []domain.PnLPoint
		openErr   error
		closedErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if stats, err = s.data.WalletStats(gctx, address); err != nil {
			s.warn(gctx, "wallet stats", err)
		}
		return nil
	})
	g.Go(func() error {
		open, openErr = s.data.OpenPositions(gctx, address)
		return nil
	})
	g.Go(func() error {
		closed, closedErr = s.data.ClosedPositions(gctx, address)
		return nil
	})
	g.Go(func() error {
		var err error
		if value, err = s.data.PortfolioValue(gctx, address); err != nil {
			s.warn(gctx, "portfolio value", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if pnl, err = s.data.PnLHistory(gctx, address); err != nil {
			s.warn(gctx, "pnl history", err)
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.WalletReport{}, fmt.Errorf("wallet_service: report %s: %w", address, err)
	}
	if openErr != nil && closedErr != nil {
		return domain.WalletReport{}, fmt.Errorf("wallet_service: report %s: %w", address, openErr)
	}
	if openErr != nil {
		s.warn(ctx, "open positions", openErr)
	}
	if closedErr != nil {
		s.warn(ctx, "closed positions", closedErr)
	}

	report := domain.WalletReport{
		Stats:           reduceStats(address, open, closed, value, float64(stats.Volume)),
		PnLHistory:      pnl,
		OpenPositions:   open,
		ClosedPositions: closed,
	}
	if report.PnLHistory == nil {
		report.PnLHistory = []domain.PnLPoint{}
	}
	if report.OpenPositions == nil {
		report.OpenPositions = []domain.Position{}
	}
	if report.ClosedPositions == nil {
		report.ClosedPositions = []domain.Position{}
	}
	return report, nil
}

func (s *WalletService) warn(ctx context.Context, feed string, err error) {
	s.logger.WarnContext(ctx, "wallet_service: feed degraded",
		slog.String("feed", feed),
		slog.String("error", err.Error()),
	)
}

// reduceStats folds the position lists into the summary numbers the dashboard
// header shows.
func reduceStats(address string, open, closed []domain.Position, portfolioValue, volume float64) domain.WalletStats {
	stats := domain.WalletStats{
		Address:         address,
		TotalVolume:     volume,
		OpenPositions:   len(open),
		ClosedPositions: len(closed),
		PortfolioValue:  portfolioValue,
	}

	for _, p := range open {
		stats.UnrealizedPnL += p.PnL
	}

	wins := 0
	for _, p := range closed {
		stats.RealizedPnL += p.PnL
		if p.PnL > 0 {
			wins++
		}
	}
	stats.TotalPnL = stats.RealizedPnL + stats.UnrealizedPnL

	if len(closed) > 0 {
		stats.WinRate = float64(wins) / float64(len(closed)) * 100
	}
	if total := len(open) + len(closed); total > 0 && volume > 0 {
		stats.AvgBetSize = volume / float64(total)
	}
	return stats
}
