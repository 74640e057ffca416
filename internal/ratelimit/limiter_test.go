package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/tinyurl/internal/ratelimit"
	"github.com/serroba/tinyurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Record(context.Context, string, time.Duration) (int64, error) {
	return 0, errStoreDown
}

func TestSlidingWindowLimiter(t *testing.T) {
	perMinute := func(n int64) []ratelimit.Limit {
		return []ratelimit.Limit{{Window: time.Minute, Max: n}}
	}

	t.Run("allows requests under limit", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore())

		for range 5 {
			allowed, exceeded, err := limiter.Allow(context.Background(), "client1", perMinute(5))

			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Nil(t, exceeded)
		}
	})

	t.Run("denies requests over limit", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore())

		for range 3 {
			allowed, _, err := limiter.Allow(context.Background(), "client1", perMinute(3))

			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", perMinute(3))

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, int64(4), exceeded.Count)
		assert.Equal(t, int64(3), exceeded.Limit.Max)
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore())

		for range 2 {
			allowed, _, _ := limiter.Allow(context.Background(), "client1", perMinute(2))
			assert.True(t, allowed)
		}

		allowed, _, _ := limiter.Allow(context.Background(), "client1", perMinute(2))
		assert.False(t, allowed, "client1 should be rate limited")

		allowed, _, err := limiter.Allow(context.Background(), "client2", perMinute(2))

		require.NoError(t, err)
		assert.True(t, allowed, "client2 should still be allowed")
	})

	t.Run("reports the tighter of several limits", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore())
		limits := []ratelimit.Limit{
			{Window: time.Minute, Max: 10},
			{Window: time.Hour, Max: 2},
		}

		for range 2 {
			allowed, _, err := limiter.Allow(context.Background(), "client1", limits)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", limits)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, time.Hour, exceeded.Limit.Window)
	})

	t.Run("allows requests after window expires", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(store.NewRateLimitMemoryStore())
		limits := []ratelimit.Limit{{Window: 50 * time.Millisecond, Max: 2}}

		for range 2 {
			allowed, _, _ := limiter.Allow(context.Background(), "client1", limits)
			assert.True(t, allowed)
		}

		allowed, _, _ := limiter.Allow(context.Background(), "client1", limits)
		assert.False(t, allowed, "should be rate limited")

		time.Sleep(60 * time.Millisecond)

		allowed, _, err := limiter.Allow(context.Background(), "client1", limits)

		require.NoError(t, err)
		assert.True(t, allowed, "should be allowed after window expires")
	})

	t.Run("no limits always allows", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(failingStore{})

		allowed, exceeded, err := limiter.Allow(context.Background(), "client1", nil)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Nil(t, exceeded)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(failingStore{})

		allowed, _, err := limiter.Allow(context.Background(), "client1", perMinute(1))

		require.ErrorIs(t, err, errStoreDown)
		assert.False(t, allowed)
	})
}
