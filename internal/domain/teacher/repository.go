package teacher

import (
	"context"
	"time"
)

// Repository defines storage operations for teachers. Implementations issue
// one parameterized statement per call.
type Repository interface {
	// List returns every teacher ordered by id.
	List(ctx context.Context) ([]*Teacher, error)

	// ListHiredBetween returns teachers hired within [from, to], inclusive.
	ListHiredBetween(ctx context.Context, from, to time.Time) ([]*Teacher, error)

	// Find returns the teacher with the given id or a NotFound error.
	Find(ctx context.Context, id int64) (*Teacher, error)

	// Exists reports whether a teacher row with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// EmployeeNumberTaken reports whether another teacher already uses number.
	// A row whose id equals excludeID is ignored; pass 0 on insert.
	EmployeeNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error)

	// Insert stores t and returns the generated id.
	Insert(ctx context.Context, t *Teacher) (int64, error)

	// Update overwrites the row with t.ID. Returns NotFound when no row matched.
	Update(ctx context.Context, t *Teacher) error

	// Delete removes the teacher row only. Returns NotFound when no row matched.
	Delete(ctx context.Context, id int64) error

	// DeleteWithCourses removes the teacher and every course referencing them.
	// Returns NotFound when no teacher row matched.
	DeleteWithCourses(ctx context.Context, id int64) error

	// HasCourses reports whether any course references the teacher.
	HasCourses(ctx context.Context, id int64) (bool, error)
}
