// Package store defines the statement-level contract the repositories run
// against, independent of the SQL driver behind it.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by a store whose pool has been closed.
	ErrClosed = errors.New("store: connection pool is closed")

	// ErrUniqueViolation matches every *UniqueViolation.
	ErrUniqueViolation = errors.New("store: unique constraint violated")
)

// UniqueViolation is a driver error raised by a unique or primary key
// constraint, carrying the constraint name the server reported.
type UniqueViolation struct {
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("store: unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *UniqueViolation) Is(target error) bool { return target == ErrUniqueViolation }

func (e *UniqueViolation) Unwrap() error { return e.Err }

// ViolatedConstraint returns the constraint name of the first UniqueViolation
// in err's chain, or "" when there is none.
func ViolatedConstraint(err error) string {
	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv.Constraint
	}
	return ""
}

// Rows iterates a result set. Close must be called; it releases the
// connection acquired for the query.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// Store executes parameterized statements. Each call acquires a pooled
// connection and releases it before returning (Query releases on Rows.Close).
// Values are always passed as args, never formatted into sql.
type Store interface {
	// Query runs a statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// Scalar returns the first column of the first row, or nil when the
	// statement produced no rows.
	Scalar(ctx context.Context, sql string, args ...any) (any, error)

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// Int64 converts a scalar result into an int64.
func Int64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case nil:
		return 0, errors.New("store: scalar is null")
	default:
		return 0, fmt.Errorf("store: unexpected scalar type %T", v)
	}
}

// Bool converts a scalar result into a bool. A null result is false.
func Bool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("store: unexpected scalar type %T", v)
	}
}
