// Package command contains write operations (CQRS - Commands).
//
// Every write runs its checks in a fixed order: field validation, natural-key
// uniqueness, referential rules, then the single mutating statement. Nothing
// is written unless every check passes.
package command

import (
	"context"
	"fmt"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
)

// TeacherLookup is the read a referential rule needs from the teacher store.
type TeacherLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// REFERENTIAL RULES
// ══════════════════════════════════════════════════════════════════════════════

// ReferentialRules checks cross-entity references before a write.
type ReferentialRules struct {
	teachers TeacherLookup
}

// NewReferentialRules creates ReferentialRules.
func NewReferentialRules(teachers TeacherLookup) *ReferentialRules {
	return &ReferentialRules{teachers: teachers}
}

// TeacherExists reports whether id resolves to a live teacher row.
func (r *ReferentialRules) TeacherExists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.teachers.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("teacher reference: %w", err)
	}
	return ok, nil
}

// RequireTeacher returns a validation-class error when a course would point
// at a teacher that does not exist.
func (r *ReferentialRules) RequireTeacher(ctx context.Context, id int64, op string) error {
	ok, err := r.TeacherExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.Validation(course.Domain, op, course.MsgTeacherMissing)
	}
	return nil
}
