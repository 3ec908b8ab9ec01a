package arbitrage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

// fakeAdapter returns a fixed snapshot or error.
type fakeAdapter struct {
	source  domain.Source
	markets []domain.Market
	err     error
}

func (f *fakeAdapter) Source() domain.Source { return f.source }

func (f *fakeAdapter) FetchActiveMarkets(ctx context.Context, limit int) ([]domain.Market, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.markets, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func btcSnapshot() (polymarket, kalshi *fakeAdapter) {
	polymarket = &fakeAdapter{
		source: domain.SourcePolymarket,
		markets: []domain.Market{{
			ID: "pm1", Source: domain.SourcePolymarket,
			Title:    "Will BTC hit $100k by Dec 31?",
			Category: domain.CategoryCrypto,
			YesPrice: 0.40, NoPrice: 0.60,
			Volume:  500_000,
			EndDate: yearEnd,
		}},
	}
	kalshi = &fakeAdapter{
		source: domain.SourceKalshi,
		markets: []domain.Market{{
			ID: "ka1", Source: domain.SourceKalshi,
			Title:    "Bitcoin above $100,000 by end of year?",
			Category: domain.CategoryCrypto,
			YesPrice: 0.55, NoPrice: 0.45,
			Volume:  120_000,
			EndDate: yearEnd,
		}},
	}
	return polymarket, kalshi
}

func TestEngine_FindsBTCArbitrage(t *testing.T) {
	pm, ka := btcSnapshot()
	e := NewEngine(Config{}, []SourceAdapter{pm, ka}, testLogger())

	opps, err := e.FindOpportunities(context.Background(), domain.ModeStrict)
	require.NoError(t, err)
	require.Len(t, opps, 1)

	opp := opps[0]
	// A.yes(0.40) + B.no(0.45) = 0.85 -> 15% spread.
	assert.InDelta(t, 15.0, opp.Spread, 1e-9)
	assert.Equal(t, "pm1", opp.Market1.ID)
	assert.Equal(t, "ka1", opp.Market2.ID)
	assert.NotEqual(t, opp.Market1.Source, opp.Market2.Source)
	assert.Equal(t, domain.ModeStrict, opp.Mode)
}

func TestEngine_AllSourcesFail(t *testing.T) {
	down := errors.New("connection refused")
	e := NewEngine(Config{}, []SourceAdapter{
		&fakeAdapter{source: domain.SourcePolymarket, err: down},
		&fakeAdapter{source: domain.SourceKalshi, err: down},
	}, testLogger())

	_, err := e.FindOpportunities(context.Background(), domain.ModeLoose)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoSourcesAvailable)
}

func TestEngine_PartialFailureDegrades(t *testing.T) {
	pm, _ := btcSnapshot()
	e := NewEngine(Config{}, []SourceAdapter{
		pm,
		&fakeAdapter{source: domain.SourceKalshi, err: errors.New("HTTP 503")},
	}, testLogger())

	scan, err := e.Scan(context.Background(), domain.ModeLoose)
	require.NoError(t, err, "one surviving source means the scan succeeds")

	// Single-source snapshot: no cross-source pairs are possible.
	assert.Empty(t, scan.Opportunities)
	assert.Equal(t, []domain.Source{domain.SourceKalshi}, scan.FailedSources)
	assert.True(t, scan.Degraded())
}

func TestEngine_StrictIsSubsetOfLoose(t *testing.T) {
	pm := &fakeAdapter{
		source: domain.SourcePolymarket,
		markets: []domain.Market{
			{ID: "pm1", Source: domain.SourcePolymarket, Title: "Will Bitcoin go above $100k?",
				Category: domain.CategoryCrypto, YesPrice: 0.40, NoPrice: 0.60, EndDate: yearEnd},
			{ID: "pm2", Source: domain.SourcePolymarket, Title: "Will the Chiefs win the Super Bowl?",
				Category: domain.CategorySports, YesPrice: 0.30, NoPrice: 0.70, EndDate: yearEnd},
		},
	}
	ka := &fakeAdapter{
		source: domain.SourceKalshi,
		markets: []domain.Market{
			// Numeric bound mismatch: loose-only candidate.
			{ID: "ka1", Source: domain.SourceKalshi, Title: "Will Bitcoin go above $200k?",
				Category: domain.CategoryCrypto, YesPrice: 0.30, NoPrice: 0.70, EndDate: yearEnd},
			{ID: "ka2", Source: domain.SourceKalshi, Title: "Chiefs win the Super Bowl?",
				Category: domain.CategorySports, YesPrice: 0.55, NoPrice: 0.45, EndDate: yearEnd},
		},
	}
	e := NewEngine(Config{}, []SourceAdapter{pm, ka}, testLogger())

	loose, err := e.FindOpportunities(context.Background(), domain.ModeLoose)
	require.NoError(t, err)
	strict, err := e.FindOpportunities(context.Background(), domain.ModeStrict)
	require.NoError(t, err)

	assert.Len(t, loose, 2)
	assert.Len(t, strict, 1, "mismatched bound pair must not survive strict mode")

	looseKeys := make(map[string]struct{})
	for _, opp := range loose {
		looseKeys[opp.Market1.ID+"/"+opp.Market2.ID] = struct{}{}
	}
	for _, opp := range strict {
		assert.Contains(t, looseKeys, opp.Market1.ID+"/"+opp.Market2.ID,
			"strict output must be a subset of loose output")
	}
}

func TestEngine_ResultProperties(t *testing.T) {
	pm, ka := btcSnapshot()
	e := NewEngine(Config{}, []SourceAdapter{pm, ka}, testLogger())

	for _, mode := range []domain.Mode{domain.ModeStrict, domain.ModeLoose} {
		opps, err := e.FindOpportunities(context.Background(), mode)
		require.NoError(t, err)

		seen := make(map[string]struct{})
		for _, opp := range opps {
			assert.Greater(t, opp.Spread, 0.0, "zero/negative spreads never surface")
			assert.NotEqual(t, opp.Market1.Source, opp.Market2.Source)
			assert.Equal(t, opp.Market1.Category, opp.Market2.Category)

			for _, id := range []string{marketKey(opp.Market1), marketKey(opp.Market2)} {
				_, dup := seen[id]
				assert.False(t, dup, "market %s appears in more than one opportunity", id)
				seen[id] = struct{}{}
			}
		}
	}
}

func TestEngine_Idempotent(t *testing.T) {
	pm, ka := btcSnapshot()
	e := NewEngine(Config{}, []SourceAdapter{pm, ka}, testLogger())

	first, err := e.FindOpportunities(context.Background(), domain.ModeStrict)
	require.NoError(t, err)
	second, err := e.FindOpportunities(context.Background(), domain.ModeStrict)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical snapshots yield identical results")
}

func TestEngine_CancellationAborts(t *testing.T) {
	pm, ka := btcSnapshot()
	e := NewEngine(Config{ScanTimeout: time.Minute}, []SourceAdapter{pm, ka}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.FindOpportunities(ctx, domain.ModeStrict)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoSourcesAvailable,
		"caller cancellation is not a source failure")
}

func TestEngine_MalformedQuoteNeverSurfaces(t *testing.T) {
	pm, ka := btcSnapshot()
	// Corrupt the Kalshi quote beyond tolerance: the pair disappears
	// instead of propagating a bogus spread.
	ka.markets[0].NoPrice = 0.10

	e := NewEngine(Config{}, []SourceAdapter{pm, ka}, testLogger())
	opps, err := e.FindOpportunities(context.Background(), domain.ModeLoose)
	require.NoError(t, err)
	assert.Empty(t, opps)
}
