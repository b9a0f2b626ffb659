package teacher

import (
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

func validTeacher() *Teacher {
	return &Teacher{
		FirstName:      "John",
		LastName:       "Doe",
		EmployeeNumber: "T001",
		HireDate:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Salary:         shared.Units(50000),
	}
}

func TestTeacher_Validate(t *testing.T) {
	engine := validation.NewEngine()

	tests := []struct {
		name    string
		mutate  func(*Teacher)
		wantMsg string
	}{
		{"valid", func(*Teacher) {}, ""},
		{"hired later today", func(tc *Teacher) { tc.HireDate = now.Add(10 * time.Hour) }, ""},
		{"missing first name", func(tc *Teacher) { tc.FirstName = "" }, "First name is required"},
		{"missing last name", func(tc *Teacher) { tc.LastName = "" }, "Last name is required"},
		{"missing employee number", func(tc *Teacher) { tc.EmployeeNumber = "" }, "Employee number is required"},
		{"hired tomorrow", func(tc *Teacher) { tc.HireDate = now.AddDate(0, 0, 1) }, "Hire date cannot be in the future"},
		{"malformed employee number", func(tc *Teacher) { tc.EmployeeNumber = "X1" }, MsgEmployeeNumberFormat},
		{"zero salary", func(tc *Teacher) { tc.Salary = 0 }, "Salary must be greater than zero"},
		{"negative salary", func(tc *Teacher) { tc.Salary = shared.Units(-10) }, "Salary must be greater than zero"},
		{"one cent", func(tc *Teacher) { tc.Salary = 1 }, ""},
		{"column maximum", func(tc *Teacher) { tc.Salary = shared.MaxMoney }, ""},
		{"above column precision", func(tc *Teacher) { tc.Salary = shared.MaxMoney + 1 }, MsgSalaryRange},
		{"missing hire date", func(tc *Teacher) { tc.HireDate = time.Time{} }, "Hire date is required"},
		{
			"missing name reported before missing date",
			func(tc *Teacher) {
				tc.FirstName = ""
				tc.HireDate = time.Time{}
			},
			"First name is required",
		},
		{
			"first failure wins",
			func(tc *Teacher) {
				tc.EmployeeNumber = "X1"
				tc.Salary = 0
				tc.HireDate = now.AddDate(1, 0, 0)
			},
			"Hire date cannot be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := validTeacher()
			tt.mutate(tc)

			err := tc.Validate(engine, now, "Add")
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			assert.Equal(t, tt.wantMsg, shared.Message(err))
		})
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("Find", 7)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Teacher with ID 7 not found.", shared.Message(err))
}

func TestDeletePolicy_IsValid(t *testing.T) {
	assert.True(t, DeleteOrphan.IsValid())
	assert.True(t, DeleteRestrict.IsValid())
	assert.True(t, DeleteCascade.IsValid())
	assert.False(t, DeletePolicy("nullify").IsValid())
}
