// Package arbitrage implements the cross-exchange arbitrage scan pipeline:
// concurrent snapshot fetch, normalization, cross-source candidate matching,
// spread computation, and mode filtering/ranking. Every scan is a fresh,
// side-effect-free computation; no state survives between invocations.
package arbitrage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hawkolabs/hawko/internal/domain"
)

const (
	defaultScanTimeout     = 30 * time.Second
	defaultFetchLimit      = 100
	defaultMinStrictSpread = 0.5 // percent
)

// SourceAdapter fetches a normalized snapshot of currently active markets
// from one exchange.
type SourceAdapter interface {
	Source() domain.Source
	FetchActiveMarkets(ctx context.Context, limit int) ([]domain.Market, error)
}

// Config tunes the scan pipeline.
type Config struct {
	// ScanTimeout bounds one full scan, including all fetches. An adapter
	// that misses the deadline counts as an unavailable source, not a
	// fatal abort.
	ScanTimeout time.Duration

	// FetchLimit is the per-source market count requested from adapters.
	FetchLimit int

	// PriceTolerance is the allowed |yes+no-1| deviation before a quote is
	// dropped as malformed.
	PriceTolerance float64

	// FeeAllowance is a conservative fraction subtracted from every spread
	// before the positivity test.
	FeeAllowance float64

	// MinStrictSpread is the minimum spread (percent) an opportunity needs
	// to surface in strict mode.
	MinStrictSpread float64

	Matcher MatcherConfig
}

func (c *Config) applyDefaults() {
	if c.ScanTimeout <= 0 {
		c.ScanTimeout = defaultScanTimeout
	}
	if c.FetchLimit <= 0 {
		c.FetchLimit = defaultFetchLimit
	}
	if c.PriceTolerance <= 0 {
		c.PriceTolerance = defaultPriceTolerance
	}
	if c.MinStrictSpread <= 0 {
		c.MinStrictSpread = defaultMinStrictSpread
	}
}

// Engine runs arbitrage scans over a fixed set of source adapters. It holds
// no mutable state, so concurrent scans from multiple callers are safe.
type Engine struct {
	cfg      Config
	adapters []SourceAdapter
	matcher  *Matcher
	logger   *slog.Logger
}

// NewEngine creates an Engine over the given adapters.
func NewEngine(cfg Config, adapters []SourceAdapter, logger *slog.Logger) *Engine {
	cfg.applyDefaults()
	return &Engine{
		cfg:      cfg,
		adapters: adapters,
		matcher:  NewMatcher(cfg.Matcher),
		logger:   logger.With(slog.String("component", "arb_engine")),
	}
}

// FindOpportunities runs one scan and returns the ranked opportunities for
// the given mode. It fails only when every source fails; a partial snapshot
// yields a degraded (possibly empty) result instead.
func (e *Engine) FindOpportunities(ctx context.Context, mode domain.Mode) ([]domain.ArbitrageOpportunity, error) {
	scan, err := e.Scan(ctx, mode)
	if err != nil {
		return nil, err
	}
	return scan.Opportunities, nil
}

// Scan runs the full pipeline and returns the scan record, including which
// sources failed. The returned error is domain.ErrNoSourcesAvailable only
// when no source produced a snapshot.
func (e *Engine) Scan(ctx context.Context, mode domain.Mode) (domain.Scan, error) {
	started := time.Now().UTC()

	snapshot, failed, err := e.fetchAll(ctx)
	if err != nil {
		return domain.Scan{}, err
	}

	markets := Normalize(snapshot, e.cfg.PriceTolerance)
	pairs := e.matcher.Match(markets)
	opps := e.evaluate(pairs, mode)

	scan := domain.Scan{
		ID:            uuid.NewString(),
		Mode:          mode,
		StartedAt:     started,
		Duration:      time.Since(started),
		FailedSources: failed,
		Opportunities: opps,
	}

	e.logger.InfoContext(ctx, "scan complete",
		slog.String("scan_id", scan.ID),
		slog.String("mode", string(mode)),
		slog.Int("markets", len(markets)),
		slog.Int("candidates", len(pairs)),
		slog.Int("opportunities", len(opps)),
		slog.Int("failed_sources", len(failed)),
		slog.Duration("duration", scan.Duration),
	)
	return scan, nil
}

// fetchAll fans out to every adapter in parallel and joins the results,
// tolerating individual failures. Wall-clock time is bounded by the slowest
// adapter or the scan timeout, whichever is lower.
func (e *Engine) fetchAll(ctx context.Context) ([]domain.Market, []domain.Source, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ScanTimeout)
	defer cancel()

	results := make([][]domain.Market, len(e.adapters))
	failures := make([]error, len(e.adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range e.adapters {
		g.Go(func() error {
			markets, err := adapter.FetchActiveMarkets(gctx, e.cfg.FetchLimit)
			if err != nil {
				// One failing source must not abort its siblings.
				failures[i] = err
				e.logger.WarnContext(gctx, "source unavailable",
					slog.String("source", string(adapter.Source())),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = markets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Caller cancellation discards the scan entirely rather than returning
	// a partial snapshot as if sources had failed.
	if err := ctx.Err(); err != nil && err != context.DeadlineExceeded {
		return nil, nil, err
	}

	var snapshot []domain.Market
	var failed []domain.Source
	for i, adapter := range e.adapters {
		if failures[i] != nil {
			failed = append(failed, adapter.Source())
			continue
		}
		snapshot = append(snapshot, results[i]...)
	}

	if len(failed) == len(e.adapters) {
		return nil, nil, fmt.Errorf("arbitrage: %w", domain.ErrNoSourcesAvailable)
	}
	return snapshot, failed, nil
}

// evaluate computes spreads for the candidate pairs, applies the mode
// filter, and ranks the surviving opportunities.
func (e *Engine) evaluate(pairs []Pair, mode domain.Mode) []domain.ArbitrageOpportunity {
	opps := make([]domain.ArbitrageOpportunity, 0, len(pairs))
	for _, pair := range pairs {
		spread, ok := ComputeSpread(
			pair.A.YesPrice, pair.A.NoPrice,
			pair.B.YesPrice, pair.B.NoPrice,
			e.cfg.FeeAllowance,
		)
		if !ok {
			continue
		}

		if mode == domain.ModeStrict {
			if !pair.Strict(e.matcher.StrictThreshold()) {
				continue
			}
			if spread <= e.cfg.MinStrictSpread {
				continue
			}
		}

		opps = append(opps, domain.ArbitrageOpportunity{
			Event:   pair.A.Title,
			Market1: pair.A,
			Market2: pair.B,
			Spread:  spread,
			Mode:    mode,
		})
	}

	sort.Slice(opps, func(i, j int) bool {
		if opps[i].Spread != opps[j].Spread {
			return opps[i].Spread > opps[j].Spread
		}
		if vi, vj := opps[i].CombinedVolume(), opps[j].CombinedVolume(); vi != vj {
			return vi > vj
		}
		return opps[i].Market1.ID < opps[j].Market1.ID
	})
	return opps
}
