package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/tinyurl/internal/shortener"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS url_mappings (
		code       TEXT PRIMARY KEY,
		long_url   TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS url_mappings_expires_at_idx ON url_mappings (expires_at);
`

// SQLiteStore is a SQLite implementation of shortener.Store.
// Timestamps are stored as Unix nanoseconds.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection serialises writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000;", "PRAGMA journal_mode = WAL;"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate url_mappings: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) TryCreate(ctx context.Context, m *shortener.Mapping) (bool, error) {
	const query = `
		INSERT INTO url_mappings (code, long_url, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE
		SET long_url = excluded.long_url,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
		WHERE url_mappings.expires_at IS NOT NULL
			AND url_mappings.expires_at < excluded.created_at
	`

	var expiresAt sql.NullInt64
	if !m.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: m.ExpiresAt.UnixNano(), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, query, string(m.Code), m.LongURL, m.CreatedAt.UnixNano(), expiresAt)
	if err != nil {
		return false, fmt.Errorf("insert mapping: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert mapping: %w", err)
	}

	return n == 1, nil
}

func (s *SQLiteStore) Get(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	const query = `
		SELECT code, long_url, created_at, expires_at
		FROM url_mappings
		WHERE code = ?
	`

	var (
		rawCode   string
		longURL   string
		createdAt int64
		expiresAt sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx, query, string(code)).Scan(&rawCode, &longURL, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("select mapping: %w", err)
	}

	m := &shortener.Mapping{
		Code:      shortener.Code(rawCode),
		LongURL:   longURL,
		CreatedAt: time.Unix(0, createdAt).UTC(),
	}

	if expiresAt.Valid {
		m.ExpiresAt = time.Unix(0, expiresAt.Int64).UTC()
	}

	return m, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Shutdown closes the database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

var _ shortener.Store = (*SQLiteStore)(nil)
