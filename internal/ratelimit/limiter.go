package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limit caps the number of requests allowed within a sliding window.
type Limit struct {
	Window time.Duration
	Max    int64
}

func (l Limit) String() string {
	return fmt.Sprintf("%d/%s", l.Max, l.Window)
}

// Exceeded describes the first limit a request ran over.
type Exceeded struct {
	Limit Limit
	Count int64
}

// Limiter decides whether a request identified by key fits within every limit.
type Limiter interface {
	Allow(ctx context.Context, key string, limits []Limit) (allowed bool, exceeded *Exceeded, err error)
}

// SlidingWindowLimiter implements Limiter on top of a Store that counts
// requests per key over a trailing window.
type SlidingWindowLimiter struct {
	store Store
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store}
}

// Allow records the request against each limit. Every window is recorded even
// after one is exceeded so that counters stay consistent across limits.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limits []Limit) (bool, *Exceeded, error) {
	var exceeded *Exceeded

	for _, limit := range limits {
		count, err := l.store.Record(ctx, windowKey(key, limit), limit.Window)
		if err != nil {
			return false, nil, fmt.Errorf("record request: %w", err)
		}

		if count > limit.Max && exceeded == nil {
			exceeded = &Exceeded{Limit: limit, Count: count}
		}
	}

	return exceeded == nil, exceeded, nil
}

func windowKey(key string, limit Limit) string {
	return fmt.Sprintf("%s:%d", key, limit.Window.Milliseconds())
}

var _ Limiter = (*SlidingWindowLimiter)(nil)
