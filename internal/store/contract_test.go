package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/tinyurl/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every shortener.Store backend shares.
// Codes are random so the suite can run against shared backends.
func runStoreContract(t *testing.T, s shortener.Store) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("get unknown code returns ErrNotFound", func(t *testing.T) {
		m, err := s.Get(ctx, uniqueCode())

		require.ErrorIs(t, err, shortener.ErrNotFound)
		assert.Nil(t, m)
	})

	t.Run("create then get round trips", func(t *testing.T) {
		want := mappingAt(uniqueCode(), "https://example.com/a", now, now.Add(shortener.TTL))

		created, err := s.TryCreate(ctx, want)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := s.Get(ctx, want.Code)
		require.NoError(t, err)
		assertSameMapping(t, want, got)
	})

	t.Run("live mapping is never overwritten", func(t *testing.T) {
		code := uniqueCode()
		first := mappingAt(code, "https://example.com/first", now, now.Add(time.Hour))
		second := mappingAt(code, "https://example.com/second", now.Add(time.Minute), now.Add(2*time.Hour))

		created, err := s.TryCreate(ctx, first)
		require.NoError(t, err)
		require.True(t, created)

		created, err = s.TryCreate(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := s.Get(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, first.LongURL, got.LongURL)
	})

	t.Run("get returns expired mappings", func(t *testing.T) {
		old := mappingAt(uniqueCode(), "https://example.com/old", now.Add(-2*time.Hour), now.Add(-time.Hour))

		created, err := s.TryCreate(ctx, old)
		require.NoError(t, err)
		require.True(t, created)

		got, err := s.Get(ctx, old.Code)
		require.NoError(t, err)
		assert.True(t, got.Expired(now))
	})

	t.Run("expired mapping can be replaced", func(t *testing.T) {
		code := uniqueCode()
		old := mappingAt(code, "https://example.com/old", now.Add(-2*time.Hour), now.Add(-time.Hour))
		fresh := mappingAt(code, "https://example.com/fresh", now, now.Add(time.Hour))

		created, err := s.TryCreate(ctx, old)
		require.NoError(t, err)
		require.True(t, created)

		created, err = s.TryCreate(ctx, fresh)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := s.Get(ctx, code)
		require.NoError(t, err)
		assertSameMapping(t, fresh, got)
	})

	t.Run("mapping expired earlier in the same second can be replaced", func(t *testing.T) {
		code := uniqueCode()
		old := mappingAt(code, "https://example.com/old", now.Add(-time.Hour), now)
		freshAt := now.Add(500 * time.Millisecond)
		fresh := mappingAt(code, "https://example.com/fresh", freshAt, freshAt.Add(time.Hour))

		created, err := s.TryCreate(ctx, old)
		require.NoError(t, err)
		require.True(t, created)

		got, err := s.Get(ctx, code)
		require.NoError(t, err)
		require.True(t, got.Expired(freshAt))

		created, err = s.TryCreate(ctx, fresh)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("mapping is live at its exact expiry instant", func(t *testing.T) {
		code := uniqueCode()
		old := mappingAt(code, "https://example.com/old", now.Add(-time.Hour), now)

		created, err := s.TryCreate(ctx, old)
		require.NoError(t, err)
		require.True(t, created)

		created, err = s.TryCreate(ctx, mappingAt(code, "https://example.com/new", now, now.Add(time.Hour)))
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("mapping without expiry is never replaced", func(t *testing.T) {
		code := uniqueCode()
		forever := mappingAt(code, "https://example.com/forever", now.Add(-time.Hour), time.Time{})

		created, err := s.TryCreate(ctx, forever)
		require.NoError(t, err)
		require.True(t, created)

		created, err = s.TryCreate(ctx, mappingAt(code, "https://example.com/other", now, now.Add(time.Hour)))
		require.NoError(t, err)
		assert.False(t, created)

		got, err := s.Get(ctx, code)
		require.NoError(t, err)
		assert.True(t, got.ExpiresAt.IsZero())
		assert.Equal(t, forever.LongURL, got.LongURL)
	})

	t.Run("concurrent creates have one winner", func(t *testing.T) {
		code := uniqueCode()

		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)

		for i := range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				m := mappingAt(code, "https://example.com/"+string(rune('a'+i)), now, now.Add(time.Hour))

				created, err := s.TryCreate(ctx, m)
				assert.NoError(t, err)

				if created {
					wins.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func uniqueCode() shortener.Code {
	return shortener.Code("t" + uuid.NewString()[:8])
}

func mappingAt(code shortener.Code, longURL string, createdAt, expiresAt time.Time) *shortener.Mapping {
	return &shortener.Mapping{
		Code:      code,
		LongURL:   longURL,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

func assertSameMapping(t *testing.T, want, got *shortener.Mapping) {
	t.Helper()

	require.NotNil(t, got)
	assert.Equal(t, want.Code, got.Code)
	assert.Equal(t, want.LongURL, got.LongURL)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %s, got %s", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt), "expires_at: want %s, got %s", want.ExpiresAt, got.ExpiresAt)
}

var fixedTime = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
