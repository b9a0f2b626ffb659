package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// coursePrimaryKey is the constraint named in the courses DDL.
const coursePrimaryKey = "courses_pkey"

// CourseMapping binds the courses table to course.Course.
var CourseMapping = store.NewMapping("courses",
	store.Col("courseid", func(c *course.Course) any { return &c.ID }),
	store.Col("coursecode", func(c *course.Course) any { return &c.Code }),
	store.Col("teacherid", func(c *course.Course) any { return &c.TeacherID }),
	store.Col("startdate", func(c *course.Course) any { return &c.StartDate }),
	store.Col("finishdate", func(c *course.Course) any { return &c.FinishDate }),
	store.Col("coursename", func(c *course.Course) any { return &c.Name }),
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository.
type CourseRepository struct {
	db store.Store
}

var _ course.Repository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db store.Store) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses.
func (r *CourseRepository) List(ctx context.Context) ([]*course.Course, error) {
	query := `SELECT ` + CourseMapping.SelectList() + ` FROM courses ORDER BY courseid`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return CourseMapping.ScanAll(rows)
}

// ListByTeacher returns the courses taught by teacherID.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*course.Course, error) {
	query := `SELECT ` + CourseMapping.SelectList() + ` FROM courses WHERE teacherid = $1 ORDER BY courseid`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by teacher: %w", err)
	}
	return CourseMapping.ScanAll(rows)
}

// Find returns a course by id.
func (r *CourseRepository) Find(ctx context.Context, id int64) (*course.Course, error) {
	query := `SELECT ` + CourseMapping.SelectList() + ` FROM courses WHERE courseid = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	found, err := CourseMapping.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, course.NotFound("Find", id)
	}
	return found[0], nil
}

// Exists reports whether a course with id exists.
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	v, err := r.db.Scalar(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE courseid = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check course: %w", err)
	}
	return store.Bool(v)
}

// CodeTaken reports whether another course uses code.
func (r *CourseRepository) CodeTaken(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE coursecode = $1 AND courseid <> $2)`

	v, err := r.db.Scalar(ctx, query, code, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return store.Bool(v)
}

// Insert creates a course with its caller-supplied id.
func (r *CourseRepository) Insert(ctx context.Context, c *course.Course) (int64, error) {
	query := `
		INSERT INTO courses (courseid, coursecode, teacherid, startdate, finishdate, coursename)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, c.ID, c.Code, c.TeacherID, c.StartDate, c.FinishDate, c.Name)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			if store.ViolatedConstraint(err) == coursePrimaryKey {
				return 0, shared.Conflict(course.Domain, "Add", course.MsgIDTaken)
			}
			return 0, shared.Conflict(course.Domain, "Add", course.MsgCodeTaken)
		}
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	return c.ID, nil
}

// Update overwrites the course row.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	query := `
		UPDATE courses SET
			coursecode = $1,
			teacherid = $2,
			startdate = $3,
			finishdate = $4,
			coursename = $5
		WHERE courseid = $6
	`

	n, err := r.db.Exec(ctx, query, c.Code, c.TeacherID, c.StartDate, c.FinishDate, c.Name, c.ID)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return shared.Conflict(course.Domain, "Update", course.MsgCodeTaken)
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	if n == 0 {
		return course.NotFound("Update", c.ID)
	}
	return nil
}

// Delete removes the course row.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM courses WHERE courseid = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n == 0 {
		return course.NotFound("Delete", id)
	}
	return nil
}
