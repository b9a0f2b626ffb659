package student

import "context"

// Repository defines storage operations for students.
type Repository interface {
	// List returns every student ordered by id.
	List(ctx context.Context) ([]*Student, error)

	// Find returns the student with the given id or a NotFound error.
	Find(ctx context.Context, id int64) (*Student, error)

	// StudentNumberTaken reports whether another student already uses number.
	// A row whose id equals excludeID is ignored; pass 0 on insert.
	StudentNumberTaken(ctx context.Context, number string, excludeID int64) (bool, error)

	// Insert stores s and returns the generated id.
	Insert(ctx context.Context, s *Student) (int64, error)

	// Update overwrites the row with s.ID. Returns NotFound when no row matched.
	Update(ctx context.Context, s *Student) error

	// Delete removes the row. Returns NotFound when no row matched.
	Delete(ctx context.Context, id int64) error
}
