// Package service wires the platform clients, stores, and the arbitrage
// engine into the operations the HTTP layer exposes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// MarketFetcher is the slice of the platform clients the market feed needs.
// Both exchange adapters satisfy it.
type MarketFetcher interface {
	Source() domain.Source
	FetchActiveMarkets(ctx context.Context, limit int) ([]domain.Market, error)
}

// MarketService serves the merged market feed for the dashboard.
type MarketService struct {
	sources []MarketFetcher
	cache   domain.FeedCache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewMarketService creates a MarketService reading from the given sources.
func NewMarketService(sources []MarketFetcher, cache domain.FeedCache, ttl time.Duration, logger *slog.Logger) *MarketService {
	return &MarketService{
		sources: sources,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

const trendingCacheKey = "markets:trending"

// feedFetchLimit is the per-source fetch size for the cached feed. The cache
// always holds the full fetch so every requested page size slices from the
// same snapshot, whichever request populated it.
const feedFetchLimit = 500

// Trending returns active markets from every source merged and sorted by
// volume, heaviest first. Results are cached; a source failure degrades the
// feed to whatever the remaining sources returned.
func (s *MarketService) Trending(ctx context.Context, limit int) ([]domain.Market, error) {
	if limit <= 0 {
		limit = 50
	}

	var cached []domain.Market
	if err := s.cache.Get(ctx, trendingCacheKey, &cached); err == nil {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	}

	var markets []domain.Market
	var failed int
	for _, src := range s.sources {
		batch, err := src.FetchActiveMarkets(ctx, feedFetchLimit)
		if err != nil {
			failed++
			s.logger.WarnContext(ctx, "market_service: source fetch failed",
				slog.String("source", string(src.Source())),
				slog.String("error", err.Error()),
			)
			continue
		}
		markets = append(markets, batch...)
	}
	if failed == len(s.sources) {
		return nil, fmt.Errorf("market_service: trending: %w", domain.ErrNoSourcesAvailable)
	}

	sort.Slice(markets, func(i, j int) bool {
		if markets[i].Volume != markets[j].Volume {
			return markets[i].Volume > markets[j].Volume
		}
		return markets[i].ID < markets[j].ID
	})

	if err := s.cache.Set(ctx, trendingCacheKey, markets, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "market_service: cache set failed",
			slog.String("error", err.Error()),
		)
	}

	if len(markets) > limit {
		markets = markets[:limit]
	}
	return markets, nil
}

// MarketMeta is the display metadata the dashboard needs to render a market
// reference outside the main feed.
type MarketMeta struct {
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Metadata resolves display metadata for the given market IDs from the
// current feed. Unknown IDs are simply absent from the result.
func (s *MarketService) Metadata(ctx context.Context, ids []string) (map[string]MarketMeta, error) {
	markets, err := s.Trending(ctx, feedFetchLimit)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	meta := make(map[string]MarketMeta)
	for _, m := range markets {
		if len(want) > 0 && !want[m.ID] {
			continue
		}
		meta[m.ID] = MarketMeta{
			Title: m.Title,
			Image: m.Image,
			URL:   m.URL,
		}
	}
	return meta, nil
}
