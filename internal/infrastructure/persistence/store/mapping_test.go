package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    int64
	Name  string
	Start time.Time
}

var recordMapping = store.NewMapping("records",
	store.Col("recordid", func(r *record) any { return &r.ID }),
	store.Col("recordName", func(r *record) any { return &r.Name }),
	store.Col("startdate", func(r *record) any { return &r.Start }),
)

func TestMapping_SelectList(t *testing.T) {
	assert.Equal(t, "recordid, recordName, startdate", recordMapping.SelectList())
	assert.Equal(t, "records", recordMapping.Table())
}

func TestMapping_ScanAll_CaseInsensitive(t *testing.T) {
	start := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	rows := storetest.NewRows("RECORDID", "recordname", "StartDate", "extra").
		Add(int64(1), "first", start, "ignored").
		Add(int64(2), "second", start, nil)

	recs, err := recordMapping.ScanAll(rows)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].ID)
	assert.Equal(t, "first", recs[0].Name)
	assert.Equal(t, start, recs[0].Start)
	assert.Equal(t, "second", recs[1].Name)
	assert.True(t, rows.Closed())
}

func TestMapping_ScanAll_Empty(t *testing.T) {
	recs, err := recordMapping.ScanAll(storetest.NewRows("recordid", "recordname", "startdate"))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestMapping_ScanAll_MissingColumn(t *testing.T) {
	rows := storetest.NewRows("recordid", "recordname").Add(int64(1), "first")

	_, err := recordMapping.ScanAll(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startdate")
}

func TestMapping_Check(t *testing.T) {
	fake := &storetest.Store{
		QueryFunc: func(sql string, _ []any) (store.Rows, error) {
			return storetest.NewRows("recordid", "recordname", "startdate", "notes"), nil
		},
	}
	require.NoError(t, recordMapping.Check(context.Background(), fake))
	assert.Equal(t, "SELECT * FROM records LIMIT 0", fake.Last().SQL)

	fake.QueryFunc = func(string, []any) (store.Rows, error) {
		return storetest.NewRows("recordid"), nil
	}
	err := recordMapping.Check(context.Background(), fake)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recordName, startdate")

	fake.QueryFunc = func(string, []any) (store.Rows, error) {
		return nil, errors.New("relation does not exist")
	}
	assert.Error(t, recordMapping.Check(context.Background(), fake))
}

func TestNewMapping_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		store.NewMapping("dup",
			store.Col("id", func(r *record) any { return &r.ID }),
			store.Col("ID", func(r *record) any { return &r.ID }),
		)
	})
}

func TestScalarConversions(t *testing.T) {
	n, err := store.Int64(int32(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = store.Int64(nil)
	assert.Error(t, err)

	_, err = store.Int64("5")
	assert.Error(t, err)

	b, err := store.Bool(true)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = store.Bool(nil)
	require.NoError(t, err)
	assert.False(t, b)
}
