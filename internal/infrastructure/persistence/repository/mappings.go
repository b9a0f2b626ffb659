package repository

import (
	"context"

	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// CheckMappings verifies every entity mapping against the live schema.
func CheckMappings(ctx context.Context, s store.Store) error {
	checks := []func(context.Context, store.Store) error{
		TeacherMapping.Check,
		StudentMapping.Check,
		CourseMapping.Check,
	}
	for _, check := range checks {
		if err := check(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
