// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/shared"
)

// findCached serves a record from cache when possible and falls back to load.
// Cache failures are logged and treated as misses.
func findCached[T any](
	ctx context.Context,
	cache shared.RecordCache,
	logger *slog.Logger,
	entity string,
	id int64,
	load func(context.Context, int64) (*T, error),
) (*T, error) {
	var cached T
	hit, err := cache.Load(ctx, entity, id, &cached)
	if err != nil {
		logger.Warn("cache read failed", "entity", entity, "id", id, "error", err)
	}
	if hit {
		return &cached, nil
	}

	record, err := load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cache.Store(ctx, entity, id, record); err != nil {
		logger.Warn("cache write failed", "entity", entity, "id", id, "error", err)
	}
	return record, nil
}

func defaults(cache shared.RecordCache, logger *slog.Logger) (shared.RecordCache, *slog.Logger) {
	if cache == nil {
		cache = shared.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return cache, logger
}
