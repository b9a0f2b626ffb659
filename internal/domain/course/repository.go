package course

import "context"

// Repository defines storage operations for courses.
type Repository interface {
	// List returns every course ordered by id.
	List(ctx context.Context) ([]*Course, error)

	// ListByTeacher returns the courses referencing teacherID.
	ListByTeacher(ctx context.Context, teacherID int64) ([]*Course, error)

	// Find returns the course with the given id or a NotFound error.
	Find(ctx context.Context, id int64) (*Course, error)

	// Exists reports whether a course with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// CodeTaken reports whether another course already uses code.
	// A row whose id equals excludeID is ignored; pass 0 on insert.
	CodeTaken(ctx context.Context, code string, excludeID int64) (bool, error)

	// Insert stores c with its caller-supplied id and returns that id.
	Insert(ctx context.Context, c *Course) (int64, error)

	// Update overwrites the row with c.ID. Returns NotFound when no row matched.
	Update(ctx context.Context, c *Course) error

	// Delete removes the row. Returns NotFound when no row matched.
	Delete(ctx context.Context, id int64) error
}
