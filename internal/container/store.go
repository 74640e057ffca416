package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tinyurl/internal/health"
	"github.com/serroba/tinyurl/internal/shortener"
	"github.com/serroba/tinyurl/internal/store"
	"go.uber.org/zap"
)

// MappingStore is what every backend implements: the core contract plus a
// ping for health checks.
type MappingStore interface {
	shortener.Store
	health.Checker
}

// StorePackage provides the process-wide mapping store selected by Options.Store,
// wrapped with the Redis read cache when Options.Cached reports so.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		s, err := newMappingStore(ctx, i, opts)
		if err != nil {
			return nil, err
		}

		if opts.Cached() {
			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}

			s = store.NewRedisCacheStore(s, client, time.Duration(opts.CacheTTL)*time.Second, logger)
		}

		logger.Info("mapping store ready",
			zap.String("backend", opts.Store),
			zap.Bool("cached", opts.Cached()),
		)

		return s, nil
	})
}

func newMappingStore(ctx context.Context, i *do.Injector, opts *Options) (MappingStore, error) {
	switch opts.Store {
	case StoreMemory:
		return store.NewMemoryStore(), nil

	case StoreRedis:
		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisStore(client), nil

	case StorePostgres:
		pool, err := do.Invoke[*pgxpool.Pool](i)
		if err != nil {
			return nil, err
		}

		s := store.NewPostgresStore(pool)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}

		return s, nil

	case StoreSQLite:
		return store.OpenSQLite(ctx, opts.SQLitePath)

	case StoreDynamoDB:
		client, err := store.NewDynamoClient(ctx, opts.DynamoRegion, opts.DynamoEndpoint)
		if err != nil {
			return nil, err
		}

		s := store.NewDynamoStore(client, opts.DynamoTable)
		if err := s.EnsureTable(ctx); err != nil {
			return nil, err
		}

		return s, nil

	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}
}
