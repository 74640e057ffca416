package shortener

import (
	"context"
	"errors"
	"time"
)

// CacheHint is how long clients may cache a successful redirect.
const CacheHint = 24 * time.Hour

// Redirect is the outcome of a successful Resolve.
type Redirect struct {
	Code      Code
	LongURL   string
	ExpiresAt time.Time
	CacheHint time.Duration
}

// Resolver turns codes back into their long URLs.
type Resolver struct {
	store Store
	now   func() time.Time
}

// NewResolver creates a Resolver reading from store.
func NewResolver(store Store, opts ...Option) *Resolver {
	cfg := newConfig(opts)

	return &Resolver{
		store: store,
		now:   cfg.now,
	}
}

// Resolve looks up code. A record past its expiration is reported as
// expired even if the backend has not evicted it yet.
func (r *Resolver) Resolve(ctx context.Context, code Code) (*Redirect, error) {
	// Codes that could never have been stored skip the round trip.
	if code == "" || ValidateCustomCode(string(code)) != nil {
		return nil, notFound(code)
	}

	mapping, err := r.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(code)
		}

		return nil, storeUnavailable("get mapping", err)
	}

	if mapping.Expired(r.now()) {
		return nil, expired(code)
	}

	return &Redirect{
		Code:      mapping.Code,
		LongURL:   mapping.LongURL,
		ExpiresAt: mapping.ExpiresAt,
		CacheHint: CacheHint,
	}, nil
}
