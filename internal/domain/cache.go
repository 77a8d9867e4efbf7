package domain

import (
	"context"
	"time"
)

// ScanCache holds the most recent scan result so the API and dashboard can
// serve it without refetching markets. Entries expire on their own; a fresh
// scan simply overwrites.
type ScanCache interface {
	SetLatest(ctx context.Context, result ScanResult) error
	GetLatest(ctx context.Context) (ScanResult, error)
}

// SignalBus provides pub/sub fan-out for scan lifecycle events plus a durable
// journal stream for anything worth keeping in order.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	StreamAppend(ctx context.Context, stream string, payload []byte) error
}

// RateLimiter enforces a fixed-window request cap per key. Allow reports
// whether the caller identified by key may proceed given at most limit calls
// per window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
