package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// StudentMapping binds the students table to student.Student.
var StudentMapping = store.NewMapping("students",
	store.Col("studentid", func(s *student.Student) any { return &s.ID }),
	store.Col("studentfname", func(s *student.Student) any { return &s.FirstName }),
	store.Col("studentlname", func(s *student.Student) any { return &s.LastName }),
	store.Col("studentnumber", func(s *student.Student) any { return &s.StudentNumber }),
	store.Col("enroldate", func(s *student.Student) any { return &s.EnrollmentDate }),
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository.
type StudentRepository struct {
	db store.Store
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db store.Store) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns all students.
func (r *StudentRepository) List(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT ` + StudentMapping.SelectList() + ` FROM students ORDER BY studentid`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return StudentMapping.ScanAll(rows)
}

// Find returns a student by id.
func (r *StudentRepository) Find(ctx context.Context, id int64) (*student.Student, error) {
	query := `SELECT ` + StudentMapping.SelectList() + ` FROM students WHERE studentid = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	found, err := StudentMapping.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, student.NotFound("Find", id)
	}
	return found[0], nil
}

// StudentNumberTaken reports whether another student uses number.
func (r *StudentRepository) StudentNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM students WHERE studentnumber = $1 AND studentid <> $2)`

	v, err := r.db.Scalar(ctx, query, number, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check student number: %w", err)
	}
	return store.Bool(v)
}

// Insert creates a student and returns the generated id.
func (r *StudentRepository) Insert(ctx context.Context, s *student.Student) (int64, error) {
	query := `
		INSERT INTO students (studentfname, studentlname, studentnumber, enroldate)
		VALUES ($1, $2, $3, $4)
		RETURNING studentid
	`

	v, err := r.db.Scalar(ctx, query, s.FirstName, s.LastName, s.StudentNumber, s.EnrollmentDate)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return 0, shared.Conflict(student.Domain, "Add", student.MsgStudentNumberTaken)
		}
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	return store.Int64(v)
}

// Update overwrites the student row.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			studentfname = $1,
			studentlname = $2,
			studentnumber = $3,
			enroldate = $4
		WHERE studentid = $5
	`

	n, err := r.db.Exec(ctx, query, s.FirstName, s.LastName, s.StudentNumber, s.EnrollmentDate, s.ID)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return shared.Conflict(student.Domain, "Update", student.MsgStudentNumberTaken)
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n == 0 {
		return student.NotFound("Update", s.ID)
	}
	return nil
}

// Delete removes the student row.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.Exec(ctx, `DELETE FROM students WHERE studentid = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n == 0 {
		return student.NotFound("Delete", id)
	}
	return nil
}
