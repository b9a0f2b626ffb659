package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schoolapp/school-records/pkg/circuitbreaker"
)

const (
	// PrefixRecord namespaces cached records: "record:{entity}:{id}".
	PrefixRecord = "record:"

	// TTLRecord is the default lifetime of a cached record.
	TTLRecord = 5 * time.Minute
)

// RecordKey returns the cache key for one record.
func RecordKey(entity string, id int64) string {
	return fmt.Sprintf("%s%s:%d", PrefixRecord, entity, id)
}

// RecordPattern matches every cached record of an entity.
func RecordPattern(entity string) string {
	return PrefixRecord + entity + ":*"
}

// backend is the subset of Cache used by RecordCache.
type backend interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RecordCache caches individual records by entity and id.
type RecordCache struct {
	cache   backend
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewRecordCache creates a RecordCache on top of cache. A non-positive ttl
// selects TTLRecord.
func NewRecordCache(cache *Cache, ttl time.Duration) *RecordCache {
	return newRecordCache(cache, ttl)
}

func newRecordCache(cache backend, ttl time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = TTLRecord
	}
	return &RecordCache{cache: cache, ttl: ttl}
}

// WithBreaker routes every call through cb. While the circuit is open calls
// fail with circuitbreaker.ErrOpen without touching Redis.
func (r *RecordCache) WithBreaker(cb *circuitbreaker.CircuitBreaker) *RecordCache {
	r.breaker = cb
	return r
}

func (r *RecordCache) call(ctx context.Context, fn func(context.Context) error) error {
	if r.breaker == nil {
		return fn(ctx)
	}
	return r.breaker.Execute(ctx, fn)
}

// Load fills dest from the cache. It reports false on a miss.
func (r *RecordCache) Load(ctx context.Context, entity string, id int64, dest any) (bool, error) {
	hit := false
	err := r.call(ctx, func(ctx context.Context) error {
		err := r.cache.Get(ctx, RecordKey(entity, id), dest)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		hit = err == nil
		return err
	})
	if err != nil {
		return false, err
	}
	return hit, nil
}

// Store caches value under the record key.
func (r *RecordCache) Store(ctx context.Context, entity string, id int64, value any) error {
	return r.call(ctx, func(ctx context.Context) error {
		return r.cache.Set(ctx, RecordKey(entity, id), value, r.ttl)
	})
}

// Evict drops one record.
func (r *RecordCache) Evict(ctx context.Context, entity string, id int64) error {
	return r.call(ctx, func(ctx context.Context) error {
		return r.cache.Delete(ctx, RecordKey(entity, id))
	})
}

// EvictAll drops every cached record of an entity.
func (r *RecordCache) EvictAll(ctx context.Context, entity string) error {
	return r.call(ctx, func(ctx context.Context) error {
		return r.cache.DeleteByPattern(ctx, RecordPattern(entity))
	})
}
