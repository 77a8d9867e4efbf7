package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

const (
	scanLatestKey  = "scan:latest"
	defaultScanTTL = 10 * time.Minute
)

// ScanCache implements domain.ScanCache using a single JSON-serialized key for
// the latest scan result. The TTL keeps a dead pipeline from serving stale
// opportunities forever.
type ScanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScanCache creates a ScanCache backed by the given Client. A non-positive
// ttl falls back to the 10-minute default.
func NewScanCache(c *Client, ttl time.Duration) *ScanCache {
	if ttl <= 0 {
		ttl = defaultScanTTL
	}
	return &ScanCache{rdb: c.rdb, ttl: ttl}
}

// SetLatest stores the scan result, replacing any previous run.
func (sc *ScanCache) SetLatest(ctx context.Context, result domain.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis: marshal scan result %s: %w", result.RunID, err)
	}
	if err := sc.rdb.Set(ctx, scanLatestKey, data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set latest scan: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent scan result. It returns
// domain.ErrNotFound when no scan has run within the TTL window.
func (sc *ScanCache) GetLatest(ctx context.Context) (domain.ScanResult, error) {
	data, err := sc.rdb.Get(ctx, scanLatestKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ScanResult{}, domain.ErrNotFound
		}
		return domain.ScanResult{}, fmt.Errorf("redis: get latest scan: %w", err)
	}

	var result domain.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.ScanResult{}, fmt.Errorf("redis: unmarshal scan result: %w", err)
	}
	return result, nil
}
