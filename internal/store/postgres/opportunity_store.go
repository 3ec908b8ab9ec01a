package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hawkolabs/hawko/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
// Each scan is one row in scans; its opportunities live in a child table with
// the markets serialized as JSONB so display fields survive round trips.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates a new OpportunityStore backed by the given
// connection pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

// InsertScan stores one scan together with all of its opportunities in a
// single transaction.
func (s *OpportunityStore) InsertScan(ctx context.Context, scan domain.Scan) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin insert scan %s: %w", scan.ID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	failed := make([]string, len(scan.FailedSources))
	for i, src := range scan.FailedSources {
		failed[i] = string(src)
	}

	const insertScan = `
		INSERT INTO scans (id, mode, started_at, duration_ms, failed_sources)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, insertScan,
		scan.ID, string(scan.Mode), scan.StartedAt,
		scan.Duration.Milliseconds(), failed,
	); err != nil {
		return fmt.Errorf("postgres: insert scan %s: %w", scan.ID, err)
	}

	const insertOpp = `
		INSERT INTO opportunities (scan_id, rank, event, spread, mode, market1, market2)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, opp := range scan.Opportunities {
		m1, err := json.Marshal(opp.Market1)
		if err != nil {
			return fmt.Errorf("postgres: marshal market %s: %w", opp.Market1.ID, err)
		}
		m2, err := json.Marshal(opp.Market2)
		if err != nil {
			return fmt.Errorf("postgres: marshal market %s: %w", opp.Market2.ID, err)
		}
		if _, err := tx.Exec(ctx, insertOpp,
			scan.ID, i, opp.Event, opp.Spread, string(opp.Mode), m1, m2,
		); err != nil {
			return fmt.Errorf("postgres: insert opportunity for scan %s: %w", scan.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit scan %s: %w", scan.ID, err)
	}
	return nil
}

// ListRecent returns the most recent scans, newest first, with their
// opportunities attached.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Scan, error) {
	query := `SELECT id, mode, started_at, duration_ms, failed_sources
		FROM scans ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	return s.list(ctx, query, args...)
}

// ListBefore returns all scans started strictly before the cutoff, oldest
// first. Used by the archiver prior to pruning.
func (s *OpportunityStore) ListBefore(ctx context.Context, before time.Time) ([]domain.Scan, error) {
	const query = `SELECT id, mode, started_at, duration_ms, failed_sources
		FROM scans WHERE started_at < $1 ORDER BY started_at ASC`
	return s.list(ctx, query, before)
}

// DeleteBefore removes scans started strictly before the cutoff and returns
// the number of scans removed. Opportunities cascade.
func (s *OpportunityStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scans WHERE started_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete scans before %s: %w", before, err)
	}
	return tag.RowsAffected(), nil
}

func (s *OpportunityStore) list(ctx context.Context, query string, args ...any) ([]domain.Scan, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list scans: %w", err)
	}
	defer rows.Close()

	var scans []domain.Scan
	index := map[string]int{}
	var ids []string

	for rows.Next() {
		var scan domain.Scan
		var mode string
		var durationMs int64
		var failed []string

		if err := rows.Scan(&scan.ID, &mode, &scan.StartedAt, &durationMs, &failed); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		scan.Mode = domain.Mode(mode)
		scan.Duration = time.Duration(durationMs) * time.Millisecond
		for _, src := range failed {
			scan.FailedSources = append(scan.FailedSources, domain.Source(src))
		}
		scan.Opportunities = []domain.ArbitrageOpportunity{}

		index[scan.ID] = len(scans)
		ids = append(ids, scan.ID)
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list scans: %w", err)
	}
	if len(scans) == 0 {
		return scans, nil
	}

	const oppQuery = `
		SELECT scan_id, event, spread, mode, market1, market2
		FROM opportunities
		WHERE scan_id = ANY($1)
		ORDER BY scan_id, rank`
	oppRows, err := s.pool.Query(ctx, oppQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities: %w", err)
	}
	defer oppRows.Close()

	for oppRows.Next() {
		var scanID, event, mode string
		var spread float64
		var m1, m2 []byte

		if err := oppRows.Scan(&scanID, &event, &spread, &mode, &m1, &m2); err != nil {
			return nil, fmt.Errorf("postgres: scan opportunity row: %w", err)
		}

		opp := domain.ArbitrageOpportunity{
			Event:  event,
			Spread: spread,
			Mode:   domain.Mode(mode),
		}
		if err := json.Unmarshal(m1, &opp.Market1); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal market for scan %s: %w", scanID, err)
		}
		if err := json.Unmarshal(m2, &opp.Market2); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal market for scan %s: %w", scanID, err)
		}

		i, ok := index[scanID]
		if !ok {
			continue
		}
		scans[i].Opportunities = append(scans[i].Opportunities, opp)
	}
	if err := oppRows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list opportunities: %w", err)
	}

	return scans, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
