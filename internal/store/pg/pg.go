// Package pg implements every persistence contract on PostgreSQL through
// database/sql with the pgx driver.
package pg

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/profile"
	"admitdesk.org/internal/tenancy"
)

type Store struct {
	db *sql.DB
}

var (
	_ auth.AccountStore = (*Store)(nil)
	_ admissions.Store  = (*Store)(nil)
	_ tenancy.Store     = (*Store)(nil)
	_ audit.Store       = (*Store)(nil)
	_ profile.OTPStore  = (*Store)(nil)
)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle. Used by tests.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
