package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memCache is an in-memory domain.FeedCache without TTL expiry.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(data, v)
}

func (c *memCache) Set(_ context.Context, key string, v any, _ time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

// memWhaleLog is an in-memory domain.WhaleLog mirroring the Redis semantics:
// dedup by ID, capped, newest-first reads.
type memWhaleLog struct {
	mu     sync.Mutex
	max    int
	alerts map[string]domain.WhaleAlert
}

func newMemWhaleLog(max int) *memWhaleLog {
	return &memWhaleLog{max: max, alerts: map[string]domain.WhaleAlert{}}
}

func (l *memWhaleLog) Add(_ context.Context, alerts []domain.WhaleAlert) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	added := 0
	for _, a := range alerts {
		if _, dup := l.alerts[a.ID]; dup {
			continue
		}
		l.alerts[a.ID] = a
		added++
	}
	for len(l.alerts) > l.max {
		oldest := ""
		for id, a := range l.alerts {
			if oldest == "" || a.Timestamp < l.alerts[oldest].Timestamp {
				oldest = id
			}
		}
		delete(l.alerts, oldest)
	}
	return added, nil
}

func (l *memWhaleLog) List(_ context.Context, opts domain.ListOpts) (domain.WhaleAlertPage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := make([]domain.WhaleAlert, 0, len(l.alerts))
	for _, a := range l.alerts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })

	total := len(all)
	if opts.Offset < len(all) {
		all = all[opts.Offset:]
	} else {
		all = nil
	}
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return domain.WhaleAlertPage{
		Alerts:  all,
		Total:   int64(total),
		HasMore: opts.Offset+len(all) < total,
	}, nil
}

func (l *memWhaleLog) ListBefore(_ context.Context, before time.Time) ([]domain.WhaleAlert, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.WhaleAlert
	for _, a := range l.alerts {
		if a.Timestamp < before.Unix() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (l *memWhaleLog) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for id, a := range l.alerts {
		if a.Timestamp < before.Unix() {
			delete(l.alerts, id)
			n++
		}
	}
	return n, nil
}

// memScanStore is an in-memory domain.OpportunityStore.
type memScanStore struct {
	mu    sync.Mutex
	scans []domain.Scan
}

func (m *memScanStore) InsertScan(_ context.Context, scan domain.Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans = append(m.scans, scan)
	return nil
}

func (m *memScanStore) ListRecent(_ context.Context, limit int) ([]domain.Scan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Scan, len(m.scans))
	copy(out, m.scans)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memScanStore) ListBefore(_ context.Context, before time.Time) ([]domain.Scan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Scan
	for _, s := range m.scans {
		if s.StartedAt.Before(before) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memScanStore) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.Scan
	var n int64
	for _, s := range m.scans {
		if s.StartedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.scans = kept
	return n, nil
}

// recordingBus captures broadcasts.
type recordingBus struct {
	mu     sync.Mutex
	events []string
	last   any
}

func (b *recordingBus) Broadcast(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.last = payload
}
