package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/redis/go-redis/v9"
)

// FeedCache implements domain.FeedCache as a JSON blob cache with per-key
// TTLs. It fronts upstream exchange reads (market feed, leaderboard) so the
// dashboard does not hammer the public APIs.
type FeedCache struct {
	rdb *redis.Client
}

// NewFeedCache creates a FeedCache backed by the given Client.
func NewFeedCache(c *Client) *FeedCache {
	return &FeedCache{rdb: c.Underlying()}
}

func feedKey(key string) string { return "feed:" + key }

// Get unmarshals the cached value for key into v. It returns
// domain.ErrNotFound when the key does not exist or has expired.
func (fc *FeedCache) Get(ctx context.Context, key string, v any) error {
	data, err := fc.rdb.Get(ctx, feedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("redis: get feed %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("redis: unmarshal feed %s: %w", key, err)
	}
	return nil
}

// Set stores v under key with the given TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis: marshal feed %s: %w", key, err)
	}
	if err := fc.rdb.Set(ctx, feedKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set feed %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.FeedCache = (*FeedCache)(nil)
