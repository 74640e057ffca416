package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/tinyurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock is a settable time source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestRateLimitMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("counts requests per client key", func(t *testing.T) {
		clock := &manualClock{now: fixedTime}
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(clock.Now))

		for want := int64(1); want <= 3; want++ {
			count, err := s.Record(ctx, "client-a:POST:/shorten:1m0s", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		}

		count, err := s.Record(ctx, "client-b:POST:/shorten:1m0s", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "each client has its own window")
	})

	t.Run("slides the window forward", func(t *testing.T) {
		clock := &manualClock{now: fixedTime}
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(clock.Now))
		key := "client-a:GET:/{code}:1m0s"

		_, _ = s.Record(ctx, key, time.Minute)

		clock.Advance(30 * time.Second)
		count, err := s.Record(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		clock.Advance(31 * time.Second)
		count, err = s.Record(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "the first request left the window")

		clock.Advance(time.Hour)
		count, err = s.Record(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "only the new request remains")
	})

	t.Run("a request exactly one window old has left it", func(t *testing.T) {
		clock := &manualClock{now: fixedTime}
		s := store.NewRateLimitMemoryStore(store.WithRateLimitClock(clock.Now))

		_, _ = s.Record(ctx, "k", time.Minute)
		clock.Advance(time.Minute)

		count, err := s.Record(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("counts concurrent requests exactly", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		var wg sync.WaitGroup

		for range 50 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := s.Record(ctx, "burst", time.Hour)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		count, err := s.Record(ctx, "burst", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(51), count)
	})
}
