package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkolabs/hawko/internal/domain"
)

type fakeSource struct {
	source    domain.Source
	markets   []domain.Market
	err       error
	calls     int
	lastLimit int
}

func (f *fakeSource) Source() domain.Source { return f.source }

func (f *fakeSource) FetchActiveMarkets(_ context.Context, limit int) ([]domain.Market, error) {
	f.calls++
	f.lastLimit = limit
	return f.markets, f.err
}

func TestTrendingMergesAndSortsByVolume(t *testing.T) {
	poly := &fakeSource{source: domain.SourcePolymarket, markets: []domain.Market{
		{ID: "pm1", Source: domain.SourcePolymarket, Title: "A", Volume: 100},
		{ID: "pm2", Source: domain.SourcePolymarket, Title: "B", Volume: 900},
	}}
	kalshi := &fakeSource{source: domain.SourceKalshi, markets: []domain.Market{
		{ID: "ka1", Source: domain.SourceKalshi, Title: "C", Volume: 500},
	}}
	svc := NewMarketService([]MarketFetcher{poly, kalshi}, newMemCache(), time.Minute, testLogger())

	markets, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, markets, 3)
	assert.Equal(t, "pm2", markets[0].ID)
	assert.Equal(t, "ka1", markets[1].ID)
	assert.Equal(t, "pm1", markets[2].ID)

	// A second call is served from the cache.
	_, err = svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, poly.calls)
	assert.Equal(t, 1, kalshi.calls)
}

func TestTrendingDegradesOnSingleSourceFailure(t *testing.T) {
	poly := &fakeSource{source: domain.SourcePolymarket, err: domain.ErrSourceUnavailable}
	kalshi := &fakeSource{source: domain.SourceKalshi, markets: []domain.Market{
		{ID: "ka1", Source: domain.SourceKalshi, Volume: 500},
	}}
	svc := NewMarketService([]MarketFetcher{poly, kalshi}, newMemCache(), time.Minute, testLogger())

	markets, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, domain.SourceKalshi, markets[0].Source)
}

func TestTrendingFailsWhenAllSourcesDown(t *testing.T) {
	poly := &fakeSource{source: domain.SourcePolymarket, err: domain.ErrSourceUnavailable}
	kalshi := &fakeSource{source: domain.SourceKalshi, err: domain.ErrSourceUnavailable}
	svc := NewMarketService([]MarketFetcher{poly, kalshi}, newMemCache(), time.Minute, testLogger())

	_, err := svc.Trending(context.Background(), 10)
	require.ErrorIs(t, err, domain.ErrNoSourcesAvailable)
}

func TestTrendingSmallFirstRequestDoesNotTruncateCache(t *testing.T) {
	poly := &fakeSource{source: domain.SourcePolymarket, markets: []domain.Market{
		{ID: "pm1", Source: domain.SourcePolymarket, Volume: 300},
		{ID: "pm2", Source: domain.SourcePolymarket, Volume: 200},
		{ID: "pm3", Source: domain.SourcePolymarket, Volume: 100},
	}}
	svc := NewMarketService([]MarketFetcher{poly}, newMemCache(), time.Minute, testLogger())

	small, err := svc.Trending(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, small, 1)
	assert.Equal(t, feedFetchLimit, poly.lastLimit, "sources are always fetched at the full feed size")

	// A larger request after the small one must see the full cached snapshot.
	big, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, big, 3)
	assert.Equal(t, 1, poly.calls, "the second request is served from the cache")
}

func TestMetadataFiltersByID(t *testing.T) {
	poly := &fakeSource{source: domain.SourcePolymarket, markets: []domain.Market{
		{ID: "pm1", Source: domain.SourcePolymarket, Title: "A", Image: "a.png", URL: "https://poly/a", Volume: 10},
		{ID: "pm2", Source: domain.SourcePolymarket, Title: "B", Volume: 20},
	}}
	svc := NewMarketService([]MarketFetcher{poly}, newMemCache(), time.Minute, testLogger())

	meta, err := svc.Metadata(context.Background(), []string{"pm1"})
	require.NoError(t, err)
	require.Len(t, meta, 1)
	assert.Equal(t, "A", meta["pm1"].Title)
	assert.Equal(t, "a.png", meta["pm1"].Image)
}
