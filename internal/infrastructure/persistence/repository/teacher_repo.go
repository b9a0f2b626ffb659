// Package repository implements the domain repository contracts with
// parameterized SQL over store.Store, independent of the driver behind it.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// TeacherMapping binds the teachers table to teacher.Teacher.
var TeacherMapping = store.NewMapping("teachers",
	store.Col("teacherid", func(t *teacher.Teacher) any { return &t.ID }),
	store.Col("teacherfname", func(t *teacher.Teacher) any { return &t.FirstName }),
	store.Col("teacherlname", func(t *teacher.Teacher) any { return &t.LastName }),
	store.Col("employeenumber", func(t *teacher.Teacher) any { return &t.EmployeeNumber }),
	store.Col("hiredate", func(t *teacher.Teacher) any { return &t.HireDate }),
	store.Col("salary", func(t *teacher.Teacher) any { return &t.Salary }),
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRepository implements teacher.Repository.
type TeacherRepository struct {
	db store.Store
}

var _ teacher.Repository = (*TeacherRepository)(nil)

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(db store.Store) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// List returns all teachers.
func (r *TeacherRepository) List(ctx context.Context) ([]*teacher.Teacher, error) {
	query := `SELECT ` + TeacherMapping.SelectList() + ` FROM teachers ORDER BY teacherid`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return TeacherMapping.ScanAll(rows)
}

// ListHiredBetween returns teachers hired within [from, to].
func (r *TeacherRepository) ListHiredBetween(ctx context.Context, from, to time.Time) ([]*teacher.Teacher, error) {
	query := `
		SELECT ` + TeacherMapping.SelectList() + `
		FROM teachers
		WHERE hiredate BETWEEN $1 AND $2
		ORDER BY teacherid
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers by hire date: %w", err)
	}
	return TeacherMapping.ScanAll(rows)
}

// Find returns a teacher by id.
func (r *TeacherRepository) Find(ctx context.Context, id int64) (*teacher.Teacher, error) {
	query := `SELECT ` + TeacherMapping.SelectList() + ` FROM teachers WHERE teacherid = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find teacher: %w", err)
	}
	found, err := TeacherMapping.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, teacher.NotFound("Find", id)
	}
	return found[0], nil
}

// Exists reports whether the teacher row exists.
func (r *TeacherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	v, err := r.db.Scalar(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE teacherid = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check teacher: %w", err)
	}
	return store.Bool(v)
}

// EmployeeNumberTaken reports whether another teacher uses number.
func (r *TeacherRepository) EmployeeNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teachers WHERE employeenumber = $1 AND teacherid <> $2)`

	v, err := r.db.Scalar(ctx, query, number, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check employee number: %w", err)
	}
	return store.Bool(v)
}

// HasCourses reports whether any course references the teacher.
func (r *TeacherRepository) HasCourses(ctx context.Context, id int64) (bool, error) {
	v, err := r.db.Scalar(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE teacherid = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check teacher courses: %w", err)
	}
	return store.Bool(v)
}

// ─────────────────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────────────────

// Insert creates a teacher and returns the generated id.
func (r *TeacherRepository) Insert(ctx context.Context, t *teacher.Teacher) (int64, error) {
	query := `
		INSERT INTO teachers (teacherfname, teacherlname, employeenumber, hiredate, salary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING teacherid
	`

	v, err := r.db.Scalar(ctx, query, t.FirstName, t.LastName, t.EmployeeNumber, t.HireDate, t.Salary)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return 0, shared.Conflict(teacher.Domain, "Add", teacher.MsgEmployeeNumberTaken)
		}
		return 0, fmt.Errorf("failed to create teacher: %w", err)
	}
	return store.Int64(v)
}

// Update overwrites the teacher row.
func (r *TeacherRepository) Update(ctx context.Context, t *teacher.Teacher) error {
	query := `
		UPDATE teachers SET
			teacherfname = $1,
			teacherlname = $2,
			employeenumber = $3,
			hiredate = $4,
			salary = $5
		WHERE teacherid = $6
	`

	n, err := r.db.Exec(ctx, query, t.FirstName, t.LastName, t.EmployeeNumber, t.HireDate, t.Salary, t.ID)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return shared.Conflict(teacher.Domain, "Update", teacher.MsgEmployeeNumberTaken)
		}
		return fmt.Errorf("failed to update teacher: %w", err)
	}
	if n == 0 {
		return teacher.NotFound("Update", t.ID)
	}
	return nil
}

// Delete removes the teacher row and leaves courses untouched.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE teacherid = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete teacher: %w", err)
	}
	if n == 0 {
		return teacher.NotFound("Delete", id)
	}
	return nil
}

// DeleteWithCourses removes the teacher and their courses in one statement.
func (r *TeacherRepository) DeleteWithCourses(ctx context.Context, id int64) error {
	query := `
		WITH removed_courses AS (
			DELETE FROM courses
			WHERE teacherid = $1
			  AND EXISTS (SELECT 1 FROM teachers WHERE teacherid = $1)
		)
		DELETE FROM teachers WHERE teacherid = $1
	`

	n, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete teacher with courses: %w", err)
	}
	if n == 0 {
		return teacher.NotFound("Delete", id)
	}
	return nil
}
