package redis

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/schoolapp/school-records/pkg/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend mimics Cache semantics without a server.
type memoryBackend struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *memoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryBackend) DeleteByPattern(_ context.Context, pattern string) error {
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	return nil
}

type row struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Day  time.Time `json:"day"`
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "record:teacher:12", RecordKey("teacher", 12))
	assert.Equal(t, "record:course:*", RecordPattern("course"))
}

func TestRecordCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryBackend()
	rc := newRecordCache(mem, 0)

	var got row
	hit, err := rc.Load(ctx, "teacher", 1, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := row{ID: 1, Name: "John", Day: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, rc.Store(ctx, "teacher", 1, want))
	assert.Equal(t, TTLRecord, mem.ttls["record:teacher:1"])

	hit, err = rc.Load(ctx, "teacher", 1, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	require.NoError(t, rc.Evict(ctx, "teacher", 1))
	hit, _ = rc.Load(ctx, "teacher", 1, &got)
	assert.False(t, hit)
}

func TestRecordCache_EvictAll(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryBackend()
	rc := newRecordCache(mem, time.Minute)

	require.NoError(t, rc.Store(ctx, "course", 10, row{ID: 10}))
	require.NoError(t, rc.Store(ctx, "course", 11, row{ID: 11}))
	require.NoError(t, rc.Store(ctx, "teacher", 1, row{ID: 1}))

	require.NoError(t, rc.EvictAll(ctx, "course"))
	assert.Len(t, mem.data, 1)
	assert.Contains(t, mem.data, "record:teacher:1")
}

type failingBackend struct{ memoryBackend }

func (failingBackend) Get(context.Context, string, interface{}) error {
	return errors.New("i/o timeout")
}

func TestRecordCache_LoadError(t *testing.T) {
	rc := newRecordCache(&failingBackend{}, time.Minute)

	var got row
	hit, err := rc.Load(context.Background(), "student", 1, &got)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestRecordCache_BreakerSkipsRedisWhenOpen(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{failingBackend: failingBackend{*newMemoryBackend()}}
	rc := newRecordCache(backend, time.Minute).
		WithBreaker(circuitbreaker.New("record-cache", circuitbreaker.WithFailureThreshold(2), circuitbreaker.WithCoolDown(time.Hour)))

	var got row
	for i := 0; i < 4; i++ {
		_, err := rc.Load(ctx, "teacher", 1, &got)
		assert.Error(t, err)
	}
	assert.Equal(t, 2, backend.gets)

	_, err := rc.Load(ctx, "teacher", 1, &got)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestRecordCache_MissDoesNotTripBreaker(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.New("record-cache", circuitbreaker.WithFailureThreshold(1))
	rc := newRecordCache(newMemoryBackend(), time.Minute).WithBreaker(cb)

	var got row
	hit, err := rc.Load(ctx, "course", 10, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

type countingBackend struct {
	failingBackend
	gets int
}

func (c *countingBackend) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	return c.failingBackend.Get(ctx, key, dest)
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	cfg.URL = "redis://:secret@cache:6380/2"
	opts, err = cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)

	cfg.URL = "http://nope"
	_, err = cfg.Options()
	assert.Error(t, err)
}
