package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/tinyurl/internal/shortener"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS url_mappings (
		code       TEXT PRIMARY KEY,
		long_url   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS url_mappings_expires_at_idx ON url_mappings (expires_at);
`

// PostgresStore is a PostgreSQL implementation of shortener.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the mapping table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate url_mappings: %w", err)
	}

	return nil
}

// TryCreate inserts the mapping, replacing an existing row only when that row
// expired before the new one was created. The upsert runs as one statement,
// so concurrent writers for a code get exactly one affected row between them.
func (p *PostgresStore) TryCreate(ctx context.Context, m *shortener.Mapping) (bool, error) {
	query := `
		INSERT INTO url_mappings (code, long_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET long_url = EXCLUDED.long_url,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE url_mappings.expires_at IS NOT NULL
			AND url_mappings.expires_at < EXCLUDED.created_at
	`

	tag, err := p.pool.Exec(ctx, query,
		string(m.Code),
		m.LongURL,
		m.CreatedAt,
		nullableTime(m.ExpiresAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert mapping: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresStore) Get(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	query := `
		SELECT code, long_url, created_at, expires_at
		FROM url_mappings
		WHERE code = $1
	`

	var (
		m         shortener.Mapping
		expiresAt *time.Time
	)

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&m.Code,
		&m.LongURL,
		&m.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("select mapping: %w", err)
	}

	if expiresAt != nil {
		m.ExpiresAt = *expiresAt
	}

	return &m, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

var _ shortener.Store = (*PostgresStore)(nil)
