package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

const connectTimeout = 30 * time.Second

// redisConn owns the shared Redis client. Everything that uses Redis invokes
// the client through it, so the injector closes the client after its users.
type redisConn struct {
	client *redis.Client
}

func (r *redisConn) Shutdown() error {
	return r.client.Close()
}

// RedisPackage provides the shared Redis client. The client connects lazily.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redisConn, error) {
		opts := do.MustInvoke[*Options](i)

		return &redisConn{client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		conn, err := do.Invoke[*redisConn](i)
		if err != nil {
			return nil, err
		}

		return conn.client, nil
	})
}

// PostgresPackage provides the PostgreSQL connection pool. The pool is closed
// by the PostgresStore that owns it.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		logger.Info("connected to postgres")

		return pool, nil
	})
}
