package student

import (
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"

	"github.com/stretchr/testify/assert"
)

func TestStudent_Validate(t *testing.T) {
	engine := validation.NewEngine()
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

	base := Student{
		FirstName:      "Sarah",
		LastName:       "Valdez",
		StudentNumber:  "N1678",
		EnrollmentDate: time.Date(2018, 6, 18, 0, 0, 0, 0, time.UTC),
	}

	s := base
	assert.NoError(t, s.Validate(engine, now, "Add"))

	s = base
	s.StudentNumber = "N167"
	assert.Equal(t, MsgStudentNumberFormat, shared.Message(s.Validate(engine, now, "Add")))

	s = base
	s.StudentNumber = "n1678"
	assert.True(t, shared.IsValidation(s.Validate(engine, now, "Add")))

	s = base
	s.EnrollmentDate = now.AddDate(0, 0, 2)
	assert.Equal(t, "Enrollment date cannot be in the future", shared.Message(s.Validate(engine, now, "Update")))

	s = base
	s.LastName = ""
	s.StudentNumber = "bad"
	assert.Equal(t, "Last name is required", shared.Message(s.Validate(engine, now, "Add")))

	s = base
	s.EnrollmentDate = time.Time{}
	assert.Equal(t, "Enrollment date is required", shared.Message(s.Validate(engine, now, "Add")))

	s.FirstName = ""
	assert.Equal(t, "First name is required", shared.Message(s.Validate(engine, now, "Add")))
}

func TestNotFound(t *testing.T) {
	err := NotFound("Delete", 3)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
	assert.Equal(t, "Student with ID 3 not found.", shared.Message(err))
}
