package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteSubscription polls a SQLite table's rowversion column for
// advancement. It is a demo backend for a source node: something like
//
//	type NeighborTable { Sub *store.SQLiteSubscription }
//	func (t *NeighborTable) Run(ctx engine.Context, n *engine.Node) (engine.State, error) {
//	    changed, err := t.Sub.Poll(context.Background())
//	    ...
//	}
type SQLiteSubscription struct {
	desc TableDescriptor

	mu   sync.Mutex
	db   *sql.DB
	last int64
	seen bool
}

// NewSQLiteSubscription opens path (created if it does not exist) and
// prepares to poll desc.Table's rowversion column.
func NewSQLiteSubscription(path string, desc TableDescriptor) (*SQLiteSubscription, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	return &SQLiteSubscription{desc: desc, db: db}, nil
}

// Poll reports whether desc.Table's maximum rowversion has advanced since
// the previous call. The first call always reports changed=true.
func (s *SQLiteSubscription) Poll(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf("SELECT COALESCE(MAX(rowversion), 0) FROM %s", s.desc.Table)
	var current int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&current); err != nil {
		return false, fmt.Errorf("store: poll %s: %w", s.desc.Table, err)
	}

	changed := !s.seen || current != s.last
	s.seen = true
	s.last = current
	return changed, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Exec runs a DDL or DML statement against the subscription's database,
// for demo/test setup (e.g. creating the watched table and seeding rows).
// Production code should own its own connection to the table it writes;
// this exists so such setup code doesn't need a second *sql.DB.
func (s *SQLiteSubscription) Exec(query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Exec(query, args...)
}
