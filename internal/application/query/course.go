package query

import (
	"context"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/teacher"
)

// TeacherLookup is the read CourseQueries needs to tell an unknown teacher
// from a teacher without courses.
type TeacherLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CourseQueries serves course reads.
type CourseQueries struct {
	repo     course.Repository
	teachers TeacherLookup
	cache    shared.RecordCache
	logger   *slog.Logger
}

// NewCourseQueries creates CourseQueries.
func NewCourseQueries(repo course.Repository, teachers TeacherLookup, cache shared.RecordCache, logger *slog.Logger) *CourseQueries {
	cache, logger = defaults(cache, logger)
	return &CourseQueries{repo: repo, teachers: teachers, cache: cache, logger: logger}
}

// List returns every course ordered by id.
func (q *CourseQueries) List(ctx context.Context) ([]*course.Course, error) {
	return q.repo.List(ctx)
}

// Find returns one course, reading through the cache.
func (q *CourseQueries) Find(ctx context.Context, id int64) (*course.Course, error) {
	return findCached(ctx, q.cache, q.logger, course.Domain, id, q.repo.Find)
}

// ListByTeacher returns the courses referencing teacherID. Courses left
// behind by a deleted teacher are still returned; an empty result for an
// unknown teacher is NotFound.
func (q *CourseQueries) ListByTeacher(ctx context.Context, teacherID int64) ([]*course.Course, error) {
	courses, err := q.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(courses) > 0 {
		return courses, nil
	}

	exists, err := q.teachers.Exists(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, teacher.NotFound("FindCoursesByTeacherId", teacherID)
	}
	return courses, nil
}
