package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	whaleLogKey  = "whales:log"
	whaleDataKey = "whales:data"
)

// WhaleLog implements domain.WhaleLog as a capped, deduplicated alert log.
//
// Key schema:
//
//	whales:log  - sorted set, member = alert ID, score = unix timestamp
//	whales:data - hash, field = alert ID, value = JSON-serialized alert
//
// Dedup falls out of ZADD NX: an alert ID that is already a member is never
// re-added, so replayed upstream trades do not produce duplicate entries.
type WhaleLog struct {
	rdb       *redis.Client
	maxAlerts int
	retention time.Duration
}

// NewWhaleLog creates a WhaleLog backed by the given Client. The log keeps at
// most maxAlerts entries and drops entries older than retention.
func NewWhaleLog(c *Client, maxAlerts int, retention time.Duration) *WhaleLog {
	return &WhaleLog{
		rdb:       c.Underlying(),
		maxAlerts: maxAlerts,
		retention: retention,
	}
}

// Add appends alerts not already present in the log and returns how many were
// actually added. After inserting it trims the log back to the retention
// window and the size cap, oldest entries first.
func (wl *WhaleLog) Add(ctx context.Context, alerts []domain.WhaleAlert) (int, error) {
	added := 0
	for _, a := range alerts {
		if a.ID == "" {
			continue
		}
		n, err := wl.rdb.ZAddNX(ctx, whaleLogKey, redis.Z{
			Score:  float64(a.Timestamp),
			Member: a.ID,
		}).Result()
		if err != nil {
			return added, fmt.Errorf("redis: add whale alert %s: %w", a.ID, err)
		}
		if n == 0 {
			continue
		}

		data, err := json.Marshal(a)
		if err != nil {
			return added, fmt.Errorf("redis: marshal whale alert %s: %w", a.ID, err)
		}
		if err := wl.rdb.HSet(ctx, whaleDataKey, a.ID, data).Err(); err != nil {
			return added, fmt.Errorf("redis: store whale alert %s: %w", a.ID, err)
		}
		added++
	}

	if err := wl.trim(ctx); err != nil {
		return added, err
	}
	return added, nil
}

// List returns alerts newest-first with limit/offset paging. Entries older
// than the retention window are excluded even if trim has not run yet.
func (wl *WhaleLog) List(ctx context.Context, opts domain.ListOpts) (domain.WhaleAlertPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	cutoff := wl.retentionCutoff()
	minScore := strconv.FormatInt(cutoff, 10)

	total, err := wl.rdb.ZCount(ctx, whaleLogKey, minScore, "+inf").Result()
	if err != nil {
		return domain.WhaleAlertPage{}, fmt.Errorf("redis: count whale alerts: %w", err)
	}

	ids, err := wl.rdb.ZRevRangeByScore(ctx, whaleLogKey, &redis.ZRangeBy{
		Min:    minScore,
		Max:    "+inf",
		Offset: int64(offset),
		Count:  int64(limit),
	}).Result()
	if err != nil {
		return domain.WhaleAlertPage{}, fmt.Errorf("redis: list whale alerts: %w", err)
	}

	alerts, err := wl.fetch(ctx, ids)
	if err != nil {
		return domain.WhaleAlertPage{}, err
	}

	return domain.WhaleAlertPage{
		Alerts:  alerts,
		Total:   total,
		HasMore: int64(offset+len(alerts)) < total,
	}, nil
}

// ListBefore returns alerts with a timestamp strictly before the cutoff,
// oldest first. Used by the archiver prior to pruning.
func (wl *WhaleLog) ListBefore(ctx context.Context, before time.Time) ([]domain.WhaleAlert, error) {
	max := "(" + strconv.FormatInt(before.Unix(), 10)
	ids, err := wl.rdb.ZRangeByScore(ctx, whaleLogKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list whale alerts before %s: %w", before, err)
	}
	return wl.fetch(ctx, ids)
}

// DeleteBefore removes alerts older than the cutoff and returns the number
// removed.
func (wl *WhaleLog) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	max := "(" + strconv.FormatInt(before.Unix(), 10)
	ids, err := wl.rdb.ZRangeByScore(ctx, whaleLogKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: delete whale alerts before %s: %w", before, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return wl.remove(ctx, ids)
}

// trim enforces the retention window and the size cap.
func (wl *WhaleLog) trim(ctx context.Context) error {
	// Retention first: everything below the cutoff goes.
	cutoff := "(" + strconv.FormatInt(wl.retentionCutoff(), 10)
	expired, err := wl.rdb.ZRangeByScore(ctx, whaleLogKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: cutoff,
	}).Result()
	if err != nil {
		return fmt.Errorf("redis: trim whale log: %w", err)
	}
	if len(expired) > 0 {
		if _, err := wl.remove(ctx, expired); err != nil {
			return err
		}
	}

	// Then the cap: drop the lowest-scored (oldest) overflow.
	card, err := wl.rdb.ZCard(ctx, whaleLogKey).Result()
	if err != nil {
		return fmt.Errorf("redis: trim whale log: %w", err)
	}
	overflow := card - int64(wl.maxAlerts)
	if overflow <= 0 {
		return nil
	}
	oldest, err := wl.rdb.ZRange(ctx, whaleLogKey, 0, overflow-1).Result()
	if err != nil {
		return fmt.Errorf("redis: trim whale log: %w", err)
	}
	if len(oldest) > 0 {
		if _, err := wl.remove(ctx, oldest); err != nil {
			return err
		}
	}
	return nil
}

// remove deletes the given members from both the sorted set and the data hash.
func (wl *WhaleLog) remove(ctx context.Context, ids []string) (int64, error) {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	pipe := wl.rdb.TxPipeline()
	rem := pipe.ZRem(ctx, whaleLogKey, members...)
	pipe.HDel(ctx, whaleDataKey, ids...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: remove whale alerts: %w", err)
	}
	return rem.Val(), nil
}

// fetch loads and decodes alerts for the given IDs, preserving order.
func (wl *WhaleLog) fetch(ctx context.Context, ids []string) ([]domain.WhaleAlert, error) {
	if len(ids) == 0 {
		return []domain.WhaleAlert{}, nil
	}

	rows, err := wl.rdb.HMGet(ctx, whaleDataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: fetch whale alerts: %w", err)
	}

	alerts := make([]domain.WhaleAlert, 0, len(rows))
	for i, row := range rows {
		s, ok := row.(string)
		if !ok {
			// Index entry without a data row; skip rather than fail
			// the whole page.
			continue
		}
		var a domain.WhaleAlert
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("redis: unmarshal whale alert %s: %w", ids[i], err)
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (wl *WhaleLog) retentionCutoff() int64 {
	return time.Now().Add(-wl.retention).Unix()
}

// Compile-time interface check.
var _ domain.WhaleLog = (*WhaleLog)(nil)
