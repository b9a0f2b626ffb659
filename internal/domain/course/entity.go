// Package course contains the Course record, its field rules and the
// repository contract implemented in infrastructure/persistence.
//
// Course ids are supplied by the caller, unlike teacher and student ids.
package course

import (
	"fmt"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"
)

// Domain is the entity name used in domain errors and log fields.
const Domain = "course"

// Messages surfaced to callers.
const (
	MsgCodeFormat     = "Course code must be 4 letters followed by 4 digits"
	MsgCodeTaken      = "Course with this code already exists"
	MsgIDTaken        = "Course with this id already exists"
	MsgDateOrder      = "Start date must not be after finish date"
	MsgTeacherMissing = "Teacher with this id does not exist"
)

// Course is a class taught by one teacher over a date range.
type Course struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	TeacherID  int64     `json:"teacher_id"`
	StartDate  time.Time `json:"start_date"`
	FinishDate time.Time `json:"finish_date"`
}

// Rules toggles the course rules that differ between deployments. The zero
// value enforces every rule.
type Rules struct {
	// SkipDateOrder accepts a start date after the finish date.
	SkipDateOrder bool
}

// DefaultRules enforces every rule.
func DefaultRules() Rules {
	return Rules{}
}

// Validate applies the field rules in order and returns a validation-class
// error for the first failure.
func (c *Course) Validate(engine *validation.Engine, rules Rules, op string) error {
	checks := []validation.Check{
		validation.Required("Course code", c.Code),
		validation.Required("Course name", c.Name),
		validation.RequiredDate("Start date", c.StartDate),
		validation.RequiredDate("Finish date", c.FinishDate),
		validation.Format("Course code", c.Code, validation.TagCourseCode, MsgCodeFormat),
	}
	if !rules.SkipDateOrder {
		checks = append(checks, validation.NotAfter("Start date", c.StartDate, c.FinishDate, MsgDateOrder))
	}
	if fe := engine.Run(checks...); fe != nil {
		return shared.Validation(Domain, op, fe.Message)
	}
	return nil
}

// NotFound builds the error returned when no course has the given id.
func NotFound(op string, id int64) error {
	return shared.NotFound(Domain, op, fmt.Sprintf("Course with ID %d not found.", id))
}
