// Package student contains the Student record, its field rules and the
// repository contract implemented in infrastructure/persistence.
package student

import (
	"fmt"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// Domain is the entity name used in domain errors and log fields.
const Domain = "student"

// Messages surfaced to callers.
const (
	MsgStudentNumberFormat = "Student number must be 'N' followed by 4 digits"
	MsgStudentNumberTaken  = "Student with this student number already exists"
)

// Student is an enrolled learner.
type Student struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	StudentNumber  string    `json:"student_number"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// Validate applies the field rules in order and returns a validation-class
// error for the first failure.
func (s *Student) Validate(engine *validation.Engine, now time.Time, op string) error {
	fe := engine.Run(
		validation.Required("First name", s.FirstName),
		validation.Required("Last name", s.LastName),
		validation.Required("Student number", s.StudentNumber),
		validation.RequiredDate("Enrollment date", s.EnrollmentDate),
		validation.NotFuture("Enrollment date", s.EnrollmentDate, timeutil.EndOfDay(now)),
		validation.Format("Student number", s.StudentNumber, validation.TagStudentNumber, MsgStudentNumberFormat),
	)
	if fe != nil {
		return shared.Validation(Domain, op, fe.Message)
	}
	return nil
}

// NotFound builds the error returned when no student has the given id.
func NotFound(op string, id int64) error {
	return shared.NotFound(Domain, op, fmt.Sprintf("Student with ID %d not found.", id))
}
