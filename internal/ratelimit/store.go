package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key over a trailing window.
type Store interface {
	// Record records a request and returns the count of requests in the current window,
	// pruning entries older than the window.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
