// Package sqlstore implements store.Store over database/sql using sqlx and
// the lib/pq PostgreSQL driver. It is selected with DB_DRIVER=postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DriverName is the database/sql driver registered by lib/pq.
const DriverName = "postgres"

// Config holds pool settings for the database/sql handle.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DB wraps an sqlx handle.
type DB struct {
	db *sqlx.DB
}

var _ store.Store = (*DB)(nil)

// Open connects and pings the database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: connect: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return &DB{db: db}, nil
}

// New wraps an existing handle, for callers that manage the connection.
func New(db *sqlx.DB) *DB {
	return &DB{db: db}
}

// Close closes the underlying pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks if the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Query implements store.Store. The connection is returned to the pool when
// the rows are closed.
func (d *DB) Query(ctx context.Context, query string, args ...any) (store.Rows, error) {
	rows, err := d.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// Scalar implements store.Store.
func (d *DB) Scalar(ctx context.Context, query string, args ...any) (any, error) {
	var v any
	err := d.db.QueryRowxContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Exec implements store.Store.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlstore: rows affected: %w", err)
	}
	return n, nil
}

func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &store.UniqueViolation{Constraint: pqErr.Constraint, Err: err}
	}
	return err
}
