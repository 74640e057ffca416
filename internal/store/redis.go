package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinyurl/internal/shortener"
)

// ExpiredRetention is how long Redis keeps a mapping after it expires, so
// lookups can still tell an expired code from an unknown one.
const ExpiredRetention = 7 * 24 * time.Hour

// tryCreateScript writes the mapping hash unless a live mapping already holds
// the key. A mapping is live while expires_at >= created_at of the new write;
// the creation instant arrives as whole seconds plus nanoseconds so the check
// agrees with Mapping.Expired. ARGV: created_at (epoch s), created_at (ns part),
// code, long_url, created_at (RFC 3339), expires_at (epoch s, 0 for none),
// evict_at (epoch s, 0 for none).
var tryCreateScript = redis.NewScript(`
local exp = redis.call('HGET', KEYS[1], 'expires_at')
if exp then
	local e = tonumber(exp)
	local sec = tonumber(ARGV[1])
	if e == 0 or e > sec or (e == sec and ARGV[2] == '0') then
		return 0
	end
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'code', ARGV[3], 'long_url', ARGV[4], 'created_at', ARGV[5], 'expires_at', ARGV[6])
if ARGV[7] ~= '0' then
	redis.call('EXPIREAT', KEYS[1], ARGV[7])
end
return 1
`)

// RedisStore is a Redis implementation of shortener.Store.
//
// Each mapping is one hash keyed by code. The check-and-write runs as a Lua
// script so that concurrent creates for one code are serialised by Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed mapping store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "url:",
	}
}

func (r *RedisStore) TryCreate(ctx context.Context, m *shortener.Mapping) (bool, error) {
	rec := toRecord(m)

	var evictAt int64
	if rec.ExpiresAt != 0 {
		evictAt = m.ExpiresAt.Add(ExpiredRetention).Unix()
	}

	created, err := tryCreateScript.Run(ctx, r.client, []string{r.key(m.Code)},
		m.CreatedAt.Unix(),
		m.CreatedAt.Nanosecond(),
		rec.Code,
		rec.LongURL,
		rec.CreatedAt,
		rec.ExpiresAt,
		evictAt,
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis create: %w", err)
	}

	return created == 1, nil
}

func (r *RedisStore) Get(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	fields, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode mapping %s: %w", code, err)
	}

	rec := record{
		Code:      fields["code"],
		CreatedAt: fields["created_at"],
		LongURL:   fields["long_url"],
		ExpiresAt: expiresAt,
	}

	m, err := rec.mapping()
	if err != nil {
		return nil, fmt.Errorf("decode mapping %s: %w", code, err)
	}

	return m, nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) key(code shortener.Code) string {
	return r.prefix + string(code)
}

var _ shortener.Store = (*RedisStore)(nil)
