// Package store keeps dev server records as JSON documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	resource TEXT NOT NULL,
	id       TEXT NOT NULL,
	body     TEXT NOT NULL,
	UNIQUE (resource, id)
);
CREATE INDEX IF NOT EXISTS records_resource ON records (resource, seq);
`

// Store is a collection of resources, each an insertion-ordered list of
// records keyed by id.
type Store struct{ db *sql.DB }

// Open opens the database at path; an empty path keeps it in memory.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database lives and dies with it
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// HealthPing reports whether the database answers.
func (s *Store) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// List returns every record of resource in insertion order.
func (s *Store) List(ctx context.Context, resource string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM records WHERE resource = ? ORDER BY seq`, resource)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []record.Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		r, err := record.Decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode %s record: %w", resource, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the record of resource with id.
func (s *Store) Get(ctx context.Context, resource, id string) (record.Record, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE resource = ? AND id = ?`, resource, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, ErrNotFound
	}
	if err != nil {
		return record.Record{}, err
	}
	return record.Decode([]byte(body))
}

// NextID returns one more than the largest numeric id of resource.
func (s *Store) NextID(ctx context.Context, resource string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(id AS INTEGER)), 0) + 1 FROM records WHERE resource = ?`,
		resource).Scan(&n)
	return n, err
}

// Put inserts r, or replaces the record with the same id. A record without
// an id gets the next numeric one. The stored record is returned.
func (s *Store) Put(ctx context.Context, resource string, r record.Record) (record.Record, error) {
	id, ok := r.ID()
	if !ok || id == "" {
		n, err := s.NextID(ctx, resource)
		if err != nil {
			return record.Record{}, err
		}
		r = r.Clone()
		r.Set(record.IDField, record.Number(float64(n)))
		id = strconv.FormatInt(n, 10)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (resource, id, body) VALUES (?, ?, ?)
		ON CONFLICT (resource, id) DO UPDATE SET body = excluded.body`,
		resource, id, r.String())
	if err != nil {
		return record.Record{}, fmt.Errorf("put %s/%s: %w", resource, id, err)
	}
	return r, nil
}

// Delete removes the record of resource with id.
func (s *Store) Delete(ctx context.Context, resource, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE resource = ? AND id = ?`, resource, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the number of records per resource.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource, COUNT(*) FROM records GROUP BY resource`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[string]int{}
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}
