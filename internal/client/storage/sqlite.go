package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/medscribe/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteRepository stores credentials in the `credentials` table. When bound
// to a transaction (db == nil) Update simply runs fn against itself.
type SQLiteRepository struct {
	q  dbx.DBTX
	db *sql.DB
}

// NewSQLiteRepository returns a repository over db. The schema must be
// migrated already (see Open).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{q: db, db: db}
}

// Open opens (creating if needed) the SQLite database at dsn and brings its
// schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// One connection: ":memory:" databases are per-connection and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or nil when the key is absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.q.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete credential[%s]: %w", key, err)
	}
	return nil
}

// Clear removes every stored key.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// List returns all stored key/value pairs.
func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT key, value FROM credentials`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credential rows: %w", err)
	}
	return result, nil
}

// Update runs fn inside a transaction. Either every write made by fn is
// committed or none is.
func (r *SQLiteRepository) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	if r.db == nil {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLiteRepository{q: tx})
	})
}
