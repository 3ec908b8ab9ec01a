package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hawkolabs/hawko/internal/domain"
)

// ---------------------------------------------------------------------------
// Narrow store interfaces required by the archiver.
//
// The archiver only requires the time-ranged query methods it actually calls,
// not the full domain store interfaces. The Postgres opportunity store and
// the Redis whale log satisfy these implicitly.
// ---------------------------------------------------------------------------

// ScanArchiveStore provides read access to scan history for archival.
type ScanArchiveStore interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.Scan, error)
}

// WhaleArchiveStore provides read access to whale alerts for archival.
type WhaleArchiveStore interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.WhaleAlert, error)
}

// multipartWriter is implemented by blob writers that support multipart
// uploads for large objects. The S3 Writer satisfies it.
type multipartWriter interface {
	PutMultipart(ctx context.Context, path string, data io.Reader, contentType string, partSize int64) error
}

// multipartThreshold is the serialized size above which the archiver prefers
// a multipart upload.
const multipartThreshold = 8 * 1024 * 1024

// Archiver serializes old scan history and whale alerts to JSONL and uploads
// the result to S3.
//
// Deletion of the archived records from the primary stores is intentionally
// NOT performed here; that is a separate, explicit step to be executed after
// the archive upload has succeeded.
type Archiver struct {
	writer domain.BlobWriter
	scans  ScanArchiveStore
	whales WhaleArchiveStore
}

// NewArchiver creates a new Archiver.
func NewArchiver(writer domain.BlobWriter, scans ScanArchiveStore, whales WhaleArchiveStore) *Archiver {
	return &Archiver{
		writer: writer,
		scans:  scans,
		whales: whales,
	}
}

// ArchiveScans queries all scans before the cutoff, serializes them to JSONL,
// and uploads the file to archive/scans/YYYY-MM.jsonl. It returns the number
// of scans archived.
func (a *Archiver) ArchiveScans(ctx context.Context, before time.Time) (int64, error) {
	scans, err := a.scans.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive scans query: %w", err)
	}
	if len(scans) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(scans)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive scans marshal: %w", err)
	}

	if err := a.upload(ctx, archivePath("scans", before), buf); err != nil {
		return 0, fmt.Errorf("s3blob: archive scans upload: %w", err)
	}

	return int64(len(scans)), nil
}

// ArchiveWhaleAlerts queries all whale alerts before the cutoff, serializes
// them to JSONL, and uploads the file to archive/whales/YYYY-MM.jsonl. It
// returns the number of alerts archived.
func (a *Archiver) ArchiveWhaleAlerts(ctx context.Context, before time.Time) (int64, error) {
	alerts, err := a.whales.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive whale alerts query: %w", err)
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(alerts)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive whale alerts marshal: %w", err)
	}

	if err := a.upload(ctx, archivePath("whales", before), buf); err != nil {
		return 0, fmt.Errorf("s3blob: archive whale alerts upload: %w", err)
	}

	return int64(len(alerts)), nil
}

// upload sends one serialized archive file, switching to a multipart upload
// for large payloads when the writer supports it.
func (a *Archiver) upload(ctx context.Context, path string, buf []byte) error {
	if mw, ok := a.writer.(multipartWriter); ok && len(buf) > multipartThreshold {
		return mw.PutMultipart(ctx, path, bytes.NewReader(buf), "application/x-ndjson", minPartSize)
	}
	return a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson")
}

// archivePath builds the S3 key for an archive file, partitioned by
// year-month with the full cutoff timestamp in the name. Records are pruned
// from the primary stores after upload, so every run must write a distinct
// key; a coarser key would let a later run overwrite an earlier archive.
//
//	archive/scans/2026-08/2026-08-30T03-00-00Z.jsonl
//	archive/whales/2026-08/2026-08-30T03-00-00Z.jsonl
func archivePath(kind string, before time.Time) string {
	t := before.UTC()
	return fmt.Sprintf("archive/%s/%s/%s.jsonl", kind, t.Format("2006-01"), t.Format("2006-01-02T15-04-05Z"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON (JSONL).
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
