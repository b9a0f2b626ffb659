// Package teacher contains the Teacher record, its field rules and the
// repository contract implemented in infrastructure/persistence.
package teacher

import (
	"fmt"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// Domain is the entity name used in domain errors and log fields.
const Domain = "teacher"

// Messages surfaced to callers.
const (
	MsgEmployeeNumberFormat = "Employee number must be 'T' followed by 3 digits"
	MsgEmployeeNumberTaken  = "Teacher with this employee number already exists"
	MsgHasCourses           = "Teacher has courses assigned"
	MsgSalaryRange          = "Salary must not exceed 9999999999.99"
)

// Teacher is a staff member who can be assigned to courses.
type Teacher struct {
	ID             int64        `json:"id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	EmployeeNumber string       `json:"employee_number"`
	HireDate       time.Time    `json:"hire_date"`
	Salary         shared.Money `json:"salary"`
}

// Validate applies the field rules in order and returns a validation-class
// error for the first failure. now is the caller's current time; dates up to
// the end of that day are accepted.
func (t *Teacher) Validate(engine *validation.Engine, now time.Time, op string) error {
	fe := engine.Run(
		validation.Required("First name", t.FirstName),
		validation.Required("Last name", t.LastName),
		validation.Required("Employee number", t.EmployeeNumber),
		validation.RequiredDate("Hire date", t.HireDate),
		validation.NotFuture("Hire date", t.HireDate, timeutil.EndOfDay(now)),
		validation.Format("Employee number", t.EmployeeNumber, validation.TagEmployeeNumber, MsgEmployeeNumberFormat),
		validation.Positive("Salary", int64(t.Salary)),
		validation.AtMost("Salary", int64(t.Salary), int64(shared.MaxMoney), MsgSalaryRange),
	)
	if fe != nil {
		return shared.Validation(Domain, op, fe.Message)
	}
	return nil
}

// NotFound builds the error returned when no teacher has the given id.
func NotFound(op string, id int64) error {
	return shared.NotFound(Domain, op, fmt.Sprintf("Teacher with ID %d not found.", id))
}

// DeletePolicy decides what happens to courses that reference a deleted teacher.
type DeletePolicy string

const (
	// DeleteOrphan removes the teacher and leaves dependent courses pointing
	// at an id that no longer resolves.
	DeleteOrphan DeletePolicy = "orphan"

	// DeleteRestrict refuses to delete a teacher with courses.
	DeleteRestrict DeletePolicy = "restrict"

	// DeleteCascade removes the teacher and their courses in one statement.
	DeleteCascade DeletePolicy = "cascade"
)

// IsValid reports whether p is a known policy.
func (p DeletePolicy) IsValid() bool {
	switch p {
	case DeleteOrphan, DeleteRestrict, DeleteCascade:
		return true
	}
	return false
}
