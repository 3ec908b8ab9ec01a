package domain

import (
	"context"
	"io"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// OpportunityStore persists scan history. The arbitrage engine is stateless;
// persistence is strictly a caller-side concern.
type OpportunityStore interface {
	// InsertScan stores one scan together with all of its opportunities.
	InsertScan(ctx context.Context, scan Scan) error

	// ListRecent returns the most recent scans, newest first, with their
	// opportunities attached.
	ListRecent(ctx context.Context, limit int) ([]Scan, error)

	// ListBefore returns all scans started strictly before the cutoff.
	// Used by the archiver prior to pruning.
	ListBefore(ctx context.Context, before time.Time) ([]Scan, error)

	// DeleteBefore removes scans started strictly before the cutoff and
	// returns the number of scans removed.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// WhaleLog is the capped, deduplicated, timestamp-ordered alert log.
type WhaleLog interface {
	// Add appends alerts that are not already present (dedup by ID) and
	// returns how many were actually added. The log is trimmed to its
	// maximum size, oldest entries first.
	Add(ctx context.Context, alerts []WhaleAlert) (int, error)

	// List returns alerts newest-first with limit/offset paging. Entries
	// older than the retention window are excluded.
	List(ctx context.Context, opts ListOpts) (WhaleAlertPage, error)

	// ListBefore returns alerts with a timestamp strictly before the cutoff.
	ListBefore(ctx context.Context, before time.Time) ([]WhaleAlert, error)

	// DeleteBefore removes alerts older than the cutoff and returns the
	// number removed.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// FeedCache is a small JSON blob cache with per-key TTLs, used to avoid
// hammering upstream exchange APIs for dashboard reads.
type FeedCache interface {
	Get(ctx context.Context, key string, v any) error
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// RateLimiter applies a sliding-window request limit per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// BlobWriter uploads an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
