// Package storetest provides a scripted store.Store for repository tests.
package storetest

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// Call records one statement issued against the fake.
type Call struct {
	Kind string // "query", "scalar", "exec"
	SQL  string
	Args []any
}

// Store answers statements from the registered handlers. A statement with no
// handler returns an error.
type Store struct {
	mu    sync.Mutex
	Calls []Call

	QueryFunc  func(sql string, args []any) (store.Rows, error)
	ScalarFunc func(sql string, args []any) (any, error)
	ExecFunc   func(sql string, args []any) (int64, error)
}

var _ store.Store = (*Store)(nil)

func (s *Store) record(kind, sql string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Kind: kind, SQL: sql, Args: args})
}

// Query implements store.Store.
func (s *Store) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	s.record("query", sql, args)
	if s.QueryFunc == nil {
		return nil, fmt.Errorf("storetest: unexpected query %q", sql)
	}
	return s.QueryFunc(sql, args)
}

// Scalar implements store.Store.
func (s *Store) Scalar(_ context.Context, sql string, args ...any) (any, error) {
	s.record("scalar", sql, args)
	if s.ScalarFunc == nil {
		return nil, fmt.Errorf("storetest: unexpected scalar %q", sql)
	}
	return s.ScalarFunc(sql, args)
}

// Exec implements store.Store.
func (s *Store) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	s.record("exec", sql, args)
	if s.ExecFunc == nil {
		return 0, fmt.Errorf("storetest: unexpected exec %q", sql)
	}
	return s.ExecFunc(sql, args)
}

// Last returns the most recent call.
func (s *Store) Last() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Calls) == 0 {
		return Call{}
	}
	return s.Calls[len(s.Calls)-1]
}

// NoInterpolation reports whether any recorded statement contains one of the
// given values verbatim, which would mean it was formatted into the SQL text.
func (s *Store) NoInterpolation(values ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Calls {
		for _, v := range values {
			if strings.Contains(c.SQL, v) {
				return false
			}
		}
	}
	return true
}

// Rows is an in-memory result set.
type Rows struct {
	Cols   []string
	Data   [][]any
	pos    int
	closed bool
}

// NewRows creates a result set with the given columns.
func NewRows(cols ...string) *Rows {
	return &Rows{Cols: cols}
}

// Add appends a row and returns r for chaining.
func (r *Rows) Add(values ...any) *Rows {
	r.Data = append(r.Data, values)
	return r
}

// Next implements store.Rows.
func (r *Rows) Next() bool {
	if r.closed || r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

// Scan implements store.Rows.
func (r *Rows) Scan(dest ...any) error {
	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("storetest: scan expects %d targets, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Ptr || target.IsNil() {
			return fmt.Errorf("storetest: scan target %d is not a pointer", i)
		}
		if scanner, ok := d.(sql.Scanner); ok {
			if err := scanner.Scan(row[i]); err != nil {
				return fmt.Errorf("storetest: scan column %d: %w", i, err)
			}
			continue
		}
		elem := target.Elem()
		if row[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		default:
			return fmt.Errorf("storetest: cannot scan %T into %s", row[i], elem.Type())
		}
	}
	return nil
}

// Columns implements store.Rows.
func (r *Rows) Columns() ([]string, error) {
	return r.Cols, nil
}

// Err implements store.Rows.
func (r *Rows) Err() error {
	return nil
}

// Close implements store.Rows.
func (r *Rows) Close() error {
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Rows) Closed() bool {
	return r.closed
}
