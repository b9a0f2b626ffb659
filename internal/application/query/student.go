package query

import (
	"context"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
)

// StudentQueries serves student reads.
type StudentQueries struct {
	repo   student.Repository
	cache  shared.RecordCache
	logger *slog.Logger
}

// NewStudentQueries creates StudentQueries.
func NewStudentQueries(repo student.Repository, cache shared.RecordCache, logger *slog.Logger) *StudentQueries {
	cache, logger = defaults(cache, logger)
	return &StudentQueries{repo: repo, cache: cache, logger: logger}
}

// List returns every student ordered by id.
func (q *StudentQueries) List(ctx context.Context) ([]*student.Student, error) {
	return q.repo.List(ctx)
}

// Find returns one student, reading through the cache.
func (q *StudentQueries) Find(ctx context.Context, id int64) (*student.Student, error) {
	return findCached(ctx, q.cache, q.logger, student.Domain, id, q.repo.Find)
}
