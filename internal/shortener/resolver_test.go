package shortener_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/serroba/tinyurl/internal/shortener"
	"github.com/serroba/tinyurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Run("round trips a shortened url", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		sh := newTestShortener(t, memStore)
		res, err := sh.Shorten(context.Background(), "https://example.com/a", "")
		require.NoError(t, err)

		resolver := shortener.NewResolver(memStore, shortener.WithClock(fixedClock))

		redirect, err := resolver.Resolve(context.Background(), res.Code)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", redirect.LongURL)
		assert.Equal(t, res.Code, redirect.Code)
		assert.Equal(t, 24*time.Hour, redirect.CacheHint)
	})

	t.Run("unknown code is NOT_FOUND", func(t *testing.T) {
		resolver := shortener.NewResolver(store.NewMemoryStore())

		redirect, err := resolver.Resolve(context.Background(), "doesnotexist")

		assert.Nil(t, redirect)
		require.ErrorIs(t, err, shortener.ErrNotFound)
		assert.Equal(t, shortener.KindNotFound, shortener.KindOf(err))
	})

	t.Run("expiration boundary", func(t *testing.T) {
		stub := &stubStore{}
		resolver := shortener.NewResolver(stub, shortener.WithClock(fixedClock))

		stub.getResult = &shortener.Mapping{
			Code: "edge", LongURL: "https://example.com", ExpiresAt: fixedNow.Add(-time.Second),
		}
		_, err := resolver.Resolve(context.Background(), "edge")
		require.ErrorIs(t, err, shortener.ErrExpired)
		assert.Equal(t, shortener.KindExpired, shortener.KindOf(err))

		stub.getResult = &shortener.Mapping{
			Code: "edge", LongURL: "https://example.com", ExpiresAt: fixedNow.Add(time.Second),
		}
		redirect, err := resolver.Resolve(context.Background(), "edge")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", redirect.LongURL)
	})

	t.Run("mapping is live at the exact expiration instant", func(t *testing.T) {
		stub := &stubStore{getResult: &shortener.Mapping{Code: "edge", LongURL: "https://example.com", ExpiresAt: fixedNow}}
		resolver := shortener.NewResolver(stub, shortener.WithClock(fixedClock))

		_, err := resolver.Resolve(context.Background(), "edge")

		assert.NoError(t, err)
	})

	t.Run("mapping without expiration never expires", func(t *testing.T) {
		stub := &stubStore{getResult: &shortener.Mapping{Code: "forever", LongURL: "https://example.com"}}
		resolver := shortener.NewResolver(stub, shortener.WithClock(func() time.Time {
			return fixedNow.Add(100 * 365 * 24 * time.Hour)
		}))

		_, err := resolver.Resolve(context.Background(), "forever")

		assert.NoError(t, err)
	})

	t.Run("store failure is STORE_UNAVAILABLE", func(t *testing.T) {
		stub := &stubStore{getErr: errBackend}
		resolver := shortener.NewResolver(stub)

		_, err := resolver.Resolve(context.Background(), "abc123")

		require.ErrorIs(t, err, shortener.ErrStoreUnavailable)
		require.ErrorIs(t, err, errBackend)
	})

	t.Run("impossible codes are NOT_FOUND without a lookup", func(t *testing.T) {
		stub := &stubStore{getErr: errBackend}
		resolver := shortener.NewResolver(stub)

		for _, code := range []shortener.Code{"", "has/slash", shortener.Code(strings.Repeat("a", 31))} {
			_, err := resolver.Resolve(context.Background(), code)

			require.ErrorIs(t, err, shortener.ErrNotFound)
		}

		assert.Zero(t, stub.getCall)
	})
}
