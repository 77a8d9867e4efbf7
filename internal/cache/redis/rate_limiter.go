package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// RateLimiter implements domain.RateLimiter with a fixed-window counter per
// key. The window key expires on its own, so an idle client costs nothing.
type RateLimiter struct {
	client *Client
}

// NewRateLimiter creates a RateLimiter backed by the given client.
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

var _ domain.RateLimiter = (*RateLimiter)(nil)

// Allow increments the counter for key and reports whether the count is still
// within limit for the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := l.client.rdb

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit incr %s: %w", key, err)
	}

	// First hit in the window owns setting the expiry.
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("redis: rate limit expire %s: %w", key, err)
		}
	}

	return count <= int64(limit), nil
}
