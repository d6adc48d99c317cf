package validate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteCache persists verdicts in a SQLite database.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteCache opens (creating if needed) the database at path and runs
// pending migrations. Use ":memory:" for a throwaway cache.
func OpenSQLiteCache(path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLiteCache(db, ttl), nil
}

// NewSQLiteCache wraps an already migrated database.
func NewSQLiteCache(db *sql.DB, ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}
}

// Migrate runs all pending verdict cache migrations on db.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get returns the stored verdict for key unless it has expired.
func (c *SQLiteCache) Get(ctx context.Context, key string) (Verdict, bool, error) {
	var (
		valid   bool
		reason  string
		expires int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT valid, reason, expires_at FROM verdicts WHERE key = ?`, key,
	).Scan(&valid, &reason, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Verdict{}, false, nil
	}
	if err != nil {
		return Verdict{}, false, fmt.Errorf("failed to read verdict: %w", err)
	}
	if expires > 0 && c.now().Unix() >= expires {
		return Verdict{}, false, nil
	}
	return Verdict{Valid: valid, Reason: reason}, true, nil
}

// Set stores verdict under key, replacing any previous one.
func (c *SQLiteCache) Set(ctx context.Context, key string, verdict Verdict) error {
	now := c.now()
	var expires int64
	if c.ttl > 0 {
		expires = now.Add(c.ttl).Unix()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO verdicts (key, valid, reason, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET valid = excluded.valid, reason = excluded.reason,
		 created_at = excluded.created_at, expires_at = excluded.expires_at`,
		key, verdict.Valid, verdict.Reason, now.Unix(), expires,
	)
	if err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}

// Prune deletes expired verdicts and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM verdicts WHERE expires_at > 0 AND expires_at <= ?`, c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune verdicts: %w", err)
	}
	return res.RowsAffected()
}
