// Package sheetdb persists sheet-shaped tabular data in sqlite: named sheets
// holding ordered rows of string cells, append-only. The listing store keeps
// one sheet per academic-year period on top of this.
package sheetdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	pool *sql.DB
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if err := migrate(pool); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

func migrate(pool *sql.DB) error {
	_, err := pool.Exec(`
CREATE TABLE IF NOT EXISTS sheets (
  name TEXT PRIMARY KEY,
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
  sheet TEXT NOT NULL,
  pos INTEGER NOT NULL,
  cells TEXT NOT NULL,
  PRIMARY KEY (sheet, pos)
);
`)
	return err
}

// EnsureSheet registers a sheet if it does not exist yet. Safe to call
// repeatedly.
func (d *DB) EnsureSheet(ctx context.Context, name string) error {
	_, err := d.pool.ExecContext(ctx, `
INSERT OR IGNORE INTO sheets (name, created_at) VALUES (?, ?);`,
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ensure sheet %q: %w", name, err)
	}
	return nil
}

// SheetExists reports whether a sheet has been registered.
func (d *DB) SheetExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := d.pool.QueryRowContext(ctx,
		`SELECT 1 FROM sheets WHERE name = ? LIMIT 1;`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RowCount returns the number of rows appended to a sheet so far, header
// included.
func (d *DB) RowCount(ctx context.Context, name string) (int, error) {
	var n int
	err := d.pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?;`, name).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// AppendRow adds one row at the next position. Rows are never rewritten.
func (d *DB) AppendRow(ctx context.Context, name string, cells []string) error {
	b, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = d.pool.ExecContext(ctx, `
INSERT INTO sheet_rows (sheet, pos, cells)
SELECT ?, COALESCE(MAX(pos), 0) + 1, ?
FROM sheet_rows WHERE sheet = ?;`,
		name, string(b), name)
	if err != nil {
		return fmt.Errorf("append row to %q: %w", name, err)
	}
	return nil
}

// ReadAll returns every row of a sheet in append order. A missing sheet reads
// as zero rows.
func (d *DB) ReadAll(ctx context.Context, name string) ([][]string, error) {
	rows, err := d.pool.QueryContext(ctx, `
SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY pos;`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}
