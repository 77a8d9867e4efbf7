package s3blob

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// multipartThreshold is the raw payload size above which uploads switch to
// the multipart path.
const multipartThreshold = 8 * 1024 * 1024

// SnapshotArchiver implements domain.SnapshotArchiver by gzip-compressing the
// raw market snapshot and uploading it to the configured bucket. Archives hold
// the raw upstream payload only; scored opportunities are never written.
type SnapshotArchiver struct {
	writer domain.BlobWriter
}

// NewSnapshotArchiver creates a SnapshotArchiver that uploads through the
// given blob writer.
func NewSnapshotArchiver(writer domain.BlobWriter) *SnapshotArchiver {
	return &SnapshotArchiver{writer: writer}
}

var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)

// ArchiveSnapshot uploads one raw snapshot under a date-partitioned key and
// returns the object key it was written to:
//
//	snapshots/2026/02/14/<run-id>.json.gz
func (a *SnapshotArchiver) ArchiveSnapshot(ctx context.Context, runID string, takenAt time.Time, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("s3blob: archive snapshot %s: empty payload", runID)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return "", fmt.Errorf("s3blob: compress snapshot %s: %w", runID, err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("s3blob: compress snapshot %s: %w", runID, err)
	}

	key := snapshotKey(runID, takenAt)

	if buf.Len() > multipartThreshold {
		if err := a.writer.PutMultipart(ctx, key, &buf, 0); err != nil {
			return "", fmt.Errorf("s3blob: archive snapshot %s: %w", runID, err)
		}
		return key, nil
	}

	if err := a.writer.Put(ctx, key, &buf, "application/gzip"); err != nil {
		return "", fmt.Errorf("s3blob: archive snapshot %s: %w", runID, err)
	}
	return key, nil
}

func snapshotKey(runID string, takenAt time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json.gz", takenAt.UTC().Format("2006/01/02"), runID)
}
