package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/tinyurl/internal/ratelimit"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitRedisStore keeps one sorted set per key, scored by request time,
// so the window slides with every request.
type RateLimitRedisStore struct {
	client *redis.Client
}

// NewRateLimitRedisStore creates a Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{client: client}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	fullKey := rateLimitKeyPrefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var card *redis.IntCmd

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, fullKey, "-inf", "("+cutoff)
		pipe.ZAdd(ctx, fullKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
		card = pipe.ZCard(ctx, fullKey)
		pipe.PExpire(ctx, fullKey, window)

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record rate limit for %s: %w", key, err)
	}

	return card.Val(), nil
}

var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
