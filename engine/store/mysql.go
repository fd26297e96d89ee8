package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLSubscription polls a MySQL table's checksum for advancement, for
// deployments where the engine's external data plane is MySQL rather than
// SQLite. dsn follows the go-sql-driver/mysql DSN format, e.g.
// "user:pass@tcp(127.0.0.1:3306)/dbname?parseTime=true".
type MySQLSubscription struct {
	desc TableDescriptor

	mu   sync.Mutex
	db   *sql.DB
	last string
	seen bool
}

// NewMySQLSubscription opens dsn and prepares to poll desc.Table's
// checksum.
func NewMySQLSubscription(dsn string, desc TableDescriptor) (*MySQLSubscription, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}
	return &MySQLSubscription{desc: desc, db: db}, nil
}

// Poll reports whether desc.Table's checksum has changed since the
// previous call. The first call always reports changed=true.
func (s *MySQLSubscription) Poll(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf("CHECKSUM TABLE %s", s.desc.Table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("store: poll %s: %w", s.desc.Table, err)
	}
	defer rows.Close()

	var (
		table    string
		checksum sql.NullString
	)
	if rows.Next() {
		if err := rows.Scan(&table, &checksum); err != nil {
			return false, fmt.Errorf("store: scan checksum: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("store: checksum rows: %w", err)
	}

	current := checksum.String
	changed := !s.seen || current != s.last
	s.seen = true
	s.last = current
	return changed, nil
}

// Close releases the underlying database handle.
func (s *MySQLSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
