package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// SnapshotArchiver stores raw market snapshots in cold storage so a scan's
// inputs can be inspected after the fact. Returns the object path written.
type SnapshotArchiver interface {
	ArchiveSnapshot(ctx context.Context, runID string, takenAt time.Time, raw []byte) (string, error)
}
