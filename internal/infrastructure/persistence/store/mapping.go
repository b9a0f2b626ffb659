package store

import (
	"context"
	"fmt"
	"strings"
)

// Field binds one table column to a field of T.
type Field[T any] struct {
	Column string
	Target func(rec *T) any // returns a pointer suitable for Rows.Scan
}

// Col is shorthand for building a Field.
func Col[T any](column string, target func(rec *T) any) Field[T] {
	return Field[T]{Column: column, Target: target}
}

// Mapping is an explicit column-to-field table for one entity. Column names
// are matched case-insensitively.
type Mapping[T any] struct {
	table  string
	fields []Field[T]
	index  map[string]int
}

// NewMapping creates a mapping for table. It panics on duplicate columns,
// which is a programming error.
func NewMapping[T any](table string, fields ...Field[T]) *Mapping[T] {
	m := &Mapping[T]{
		table:  table,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		key := strings.ToLower(f.Column)
		if _, dup := m.index[key]; dup {
			panic(fmt.Sprintf("store: duplicate column %q in mapping for %s", f.Column, table))
		}
		m.index[key] = i
	}
	return m
}

// Table returns the mapped table name.
func (m *Mapping[T]) Table() string {
	return m.table
}

// SelectList returns the mapped columns joined for a SELECT clause.
func (m *Mapping[T]) SelectList() string {
	cols := make([]string, len(m.fields))
	for i, f := range m.fields {
		cols[i] = f.Column
	}
	return strings.Join(cols, ", ")
}

// Check verifies that every mapped column exists on the live table.
// Run it at startup so a schema drift fails before the first request.
func (m *Mapping[T]) Check(ctx context.Context, s Store) error {
	rows, err := s.Query(ctx, "SELECT * FROM "+m.table+" LIMIT 0")
	if err != nil {
		return fmt.Errorf("store: check %s: %w", m.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("store: check %s: %w", m.table, err)
	}
	if missing := m.missing(cols); len(missing) > 0 {
		return fmt.Errorf("store: table %s is missing mapped columns: %s", m.table, strings.Join(missing, ", "))
	}
	return rows.Err()
}

// ScanAll maps every row of rows into a new record and closes rows.
// Result columns that are not mapped are ignored; a mapped column absent
// from the result set is an error.
func (m *Mapping[T]) ScanAll(rows Rows) ([]*T, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store: read columns of %s: %w", m.table, err)
	}
	if missing := m.missing(cols); len(missing) > 0 {
		return nil, fmt.Errorf("store: result for %s is missing mapped columns: %s", m.table, strings.Join(missing, ", "))
	}

	out := []*T{}
	for rows.Next() {
		rec := new(T)
		dest := make([]any, len(cols))
		for i, c := range cols {
			if idx, ok := m.index[strings.ToLower(c)]; ok {
				dest[i] = m.fields[idx].Target(rec)
			} else {
				dest[i] = new(any)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("store: scan %s row: %w", m.table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s rows: %w", m.table, err)
	}
	return out, nil
}

func (m *Mapping[T]) missing(cols []string) []string {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[strings.ToLower(c)] = true
	}
	var missing []string
	for _, f := range m.fields {
		if !present[strings.ToLower(f.Column)] {
			missing = append(missing, f.Column)
		}
	}
	return missing
}
