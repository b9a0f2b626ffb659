package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/teacher"
)

// MsgHireRange is returned when a hire-date filter ends before it starts.
const MsgHireRange = "Hired from date must not be after hired to date"

// TeacherQueries serves teacher reads.
type TeacherQueries struct {
	repo   teacher.Repository
	cache  shared.RecordCache
	logger *slog.Logger
}

// NewTeacherQueries creates TeacherQueries. A nil cache reads straight
// from the repository.
func NewTeacherQueries(repo teacher.Repository, cache shared.RecordCache, logger *slog.Logger) *TeacherQueries {
	cache, logger = defaults(cache, logger)
	return &TeacherQueries{repo: repo, cache: cache, logger: logger}
}

// List returns every teacher ordered by id.
func (q *TeacherQueries) List(ctx context.Context) ([]*teacher.Teacher, error) {
	return q.repo.List(ctx)
}

// ListHiredBetween returns teachers whose hire date falls within [from, to].
func (q *TeacherQueries) ListHiredBetween(ctx context.Context, from, to time.Time) ([]*teacher.Teacher, error) {
	if from.After(to) {
		return nil, shared.Validation(teacher.Domain, "ListHiredBetween", MsgHireRange)
	}
	return q.repo.ListHiredBetween(ctx, from, to)
}

// Find returns one teacher, reading through the cache.
func (q *TeacherQueries) Find(ctx context.Context, id int64) (*teacher.Teacher, error) {
	return findCached(ctx, q.cache, q.logger, teacher.Domain, id, q.repo.Find)
}

// Exists reports whether a teacher row with id exists.
func (q *TeacherQueries) Exists(ctx context.Context, id int64) (bool, error) {
	return q.repo.Exists(ctx, id)
}
