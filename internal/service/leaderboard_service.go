package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// leaderboardAPI is the slice of the Polymarket Data API the leaderboard
// needs.
type leaderboardAPI interface {
	Leaderboard(ctx context.Context, period string, limit int, category string) ([]domain.LeaderboardEntry, error)
}

// LeaderboardService serves the trader leaderboard with short-lived caching
// in front of the upstream API.
type LeaderboardService struct {
	data   leaderboardAPI
	cache  domain.FeedCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(data leaderboardAPI, cache domain.FeedCache, ttl time.Duration, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{
		data:   data,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

var validPeriods = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
	"all":   true,
}

// Top returns the leaderboard for the given period, capped at limit entries.
// period defaults to "week"; category is passed through to the upstream API
// ("profit" or "volume", defaulting to "profit").
func (s *LeaderboardService) Top(ctx context.Context, period string, limit int, category string) ([]domain.LeaderboardEntry, error) {
	if period == "" {
		period = "week"
	}
	if !validPeriods[period] {
		return nil, fmt.Errorf("leaderboard_service: period %q: %w", period, domain.ErrInvalidInput)
	}
	if category == "" {
		category = "profit"
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	key := fmt.Sprintf("leaderboard:%s:%s:%d", period, category, limit)

	var cached []domain.LeaderboardEntry
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	entries, err := s.data.Leaderboard(ctx, period, limit, category)
	if err != nil {
		return nil, fmt.Errorf("leaderboard_service: fetch: %w", err)
	}

	// Ranks come back in upstream order; number them here.
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if err := s.cache.Set(ctx, key, entries, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "leaderboard_service: cache set failed",
			slog.String("error", err.Error()),
		)
	}
	return entries, nil
}
