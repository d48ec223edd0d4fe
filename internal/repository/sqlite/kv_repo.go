package sqlite

import (
	"alcyxob/bodyapp/internal/repository"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// KVRepository stores key-value documents in a single SQLite table
// (modernc.org/sqlite driver, CGO-free).
// The path is a filesystem path to the database file. Use ":memory:" for in-memory.
type KVRepository struct {
	db *sql.DB
}

var _ repository.KeyValueRepository = (*KVRepository)(nil)

// New opens the SQLite database at path and ensures the schema exists.
func New(ctx context.Context, path string) (*KVRepository, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared between calls
	d.SetMaxOpenConns(1)
	// busy timeout helps with short concurrent locks
	_, _ = d.ExecContext(ctx, "PRAGMA busy_timeout=3000;")

	r := &KVRepository{db: d}
	if err := r.EnsureSchema(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return r, nil
}

func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv(
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`)
	return err
}

func (r *KVRepository) Close() error { return r.db.Close() }

// Load returns the value saved under key.
func (r *KVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?;`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

// Save upserts the value under key.
func (r *KVRepository) Save(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv(key, value, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at;`,
		key, string(value), time.Now().UTC())
	return err
}
