package container

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tinyurl/internal/ratelimit"
	"github.com/serroba/tinyurl/internal/store"
)

// RateLimitPackage provides the sliding window limiter backed by the store
// selected with Options.RateLimitStore.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.RateLimitStore {
		case "memory", "":
			return store.NewRateLimitMemoryStore(), nil
		case "redis":
			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}

			return store.NewRateLimitRedisStore(client), nil
		default:
			return nil, fmt.Errorf("unknown rate limit store %q", opts.RateLimitStore)
		}
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		s, err := do.Invoke[ratelimit.Store](i)
		if err != nil {
			return nil, err
		}

		return ratelimit.NewSlidingWindowLimiter(s), nil
	})
}
