package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinyurl/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheStore wraps a shortener.Store with a Redis read cache.
//
// Creates always go to the wrapped store, which owns atomicity. Cache entries
// expire no later than the mapping itself.
type RedisCacheStore struct {
	store  shortener.Store
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewRedisCacheStore creates a new Redis-cached store decorator.
func NewRedisCacheStore(
	store shortener.Store, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "cache:url:",
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// TryCreate writes through the wrapped store and caches the mapping on success.
func (r *RedisCacheStore) TryCreate(ctx context.Context, m *shortener.Mapping) (bool, error) {
	created, err := r.store.TryCreate(ctx, m)
	if err != nil || !created {
		return created, err
	}

	r.cacheMapping(ctx, m)

	return true, nil
}

// Get checks the cache first and falls back to the wrapped store.
func (r *RedisCacheStore) Get(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	if m, ok := r.getFromCache(ctx, code); ok {
		return m, nil
	}

	m, err := r.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheMapping(ctx, m)

	return m, nil
}

func (r *RedisCacheStore) getFromCache(ctx context.Context, code shortener.Code) (*shortener.Mapping, bool) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		r.logger.Warn("cache read failed", zap.String("code", string(code)), zap.Error(err))

		return nil, false
	}

	if len(result) == 0 {
		return nil, false
	}

	createdNanos, err := strconv.ParseInt(result["created_at"], 10, 64)
	if err != nil {
		return nil, false
	}

	m := &shortener.Mapping{
		Code:      shortener.Code(result["code"]),
		LongURL:   result["long_url"],
		CreatedAt: time.Unix(0, createdNanos).UTC(),
	}

	if ts := result["expires_at"]; ts != "" && ts != "0" {
		expiresNanos, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, false
		}

		m.ExpiresAt = time.Unix(0, expiresNanos).UTC()
	}

	return m, true
}

func (r *RedisCacheStore) cacheMapping(ctx context.Context, m *shortener.Mapping) {
	now := r.now()
	if m.Expired(now) {
		return
	}

	until := now.Add(r.ttl)
	if !m.ExpiresAt.IsZero() && m.ExpiresAt.Before(until) {
		until = m.ExpiresAt
	}

	var expiresAt int64
	if !m.ExpiresAt.IsZero() {
		expiresAt = m.ExpiresAt.UnixNano()
	}

	key := r.prefix + string(m.Code)

	// The hash and its expiry land together or not at all.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"code":       string(m.Code),
			"long_url":   m.LongURL,
			"created_at": m.CreatedAt.UnixNano(),
			"expires_at": expiresAt,
		})
		pipe.ExpireAt(ctx, key, until)

		return nil
	})
	if err != nil {
		r.logger.Warn("cache write failed", zap.String("code", string(m.Code)), zap.Error(err))
	}
}

// Ping checks the wrapped store and Redis.
func (r *RedisCacheStore) Ping(ctx context.Context) error {
	if p, ok := r.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}

	return r.client.Ping(ctx).Err()
}

// Shutdown shuts down the wrapped store when it supports it. The Redis client
// is managed externally.
func (r *RedisCacheStore) Shutdown() error {
	if s, ok := r.store.(interface{ Shutdown() error }); ok {
		return s.Shutdown()
	}

	return nil
}

// Compile-time check.
var _ shortener.Store = (*RedisCacheStore)(nil)
