package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats_WholeStringMatch(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		tag   string
		value string
		ok    bool
	}{
		{TagEmployeeNumber, "T001", true},
		{TagEmployeeNumber, "X1", false},
		{TagEmployeeNumber, "T0011", false},
		{TagEmployeeNumber, "aT001", false},
		{TagStudentNumber, "N1234", true},
		{TagStudentNumber, "N123", false},
		{TagStudentNumber, "N12345", false},
		{TagCourseCode, "ABCD1234", true},
		{TagCourseCode, "abcd1234", true},
		{TagCourseCode, "ABC1234", false},
		{TagCourseCode, "ABCD12345", false},
		{TagCourseCode, "xABCD1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := e.Run(Format("code", tt.value, tt.tag, "bad format"))
			if tt.ok {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, "bad format", err.Message)
			}
		})
	}
}

func TestRun_StageOrderWins(t *testing.T) {
	e := NewEngine()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC)

	// Declared out of order; the required rule must still be reported.
	err := e.Run(
		Positive("Salary", -1),
		Format("Employee number", "X1", TagEmployeeNumber, "bad number"),
		NotFuture("Hire date", now.AddDate(0, 0, 3), endOfDay),
		Required("First name", ""),
	)
	require.NotNil(t, err)
	assert.Equal(t, "First name", err.Field)
	assert.Equal(t, "First name is required", err.Message)

	err = e.Run(
		Positive("Salary", -1),
		Format("Employee number", "X1", TagEmployeeNumber, "bad number"),
		NotFuture("Hire date", now.AddDate(0, 0, 3), endOfDay),
	)
	require.NotNil(t, err)
	assert.Equal(t, "Hire date cannot be in the future", err.Message)

	err = e.Run(
		Positive("Salary", -1),
		Format("Employee number", "X1", TagEmployeeNumber, "bad number"),
	)
	require.NotNil(t, err)
	assert.Equal(t, "bad number", err.Message)
}

func TestNotFuture_EndOfDayBoundary(t *testing.T) {
	e := NewEngine()
	endOfDay := time.Date(2024, 5, 10, 23, 59, 59, 999999999, time.UTC)

	assert.Nil(t, e.Run(NotFuture("Date", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), endOfDay)))
	assert.Nil(t, e.Run(NotFuture("Date", endOfDay, endOfDay)))
	assert.NotNil(t, e.Run(NotFuture("Date", time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), endOfDay)))
}

func TestPositiveAndNotAfter(t *testing.T) {
	e := NewEngine()

	assert.Nil(t, e.Run(Positive("Salary", 1)))
	assert.NotNil(t, e.Run(Positive("Salary", 0)))

	assert.Nil(t, e.Run(AtMost("Salary", 999_999_999_999, 999_999_999_999, "too big")))
	err := e.Run(AtMost("Salary", 1_000_000_000_000, 999_999_999_999, "too big"))
	require.NotNil(t, err)
	assert.Equal(t, "too big", err.Message)

	start := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, e.Run(NotAfter("Start date", start, finish, "order")))
	assert.Nil(t, e.Run(NotAfter("Start date", start, start, "order")))

	err = e.Run(NotAfter("Start date", finish, start, "order"))
	require.NotNil(t, err)
	assert.Equal(t, "order", err.Error())
}

func TestRequiredDate_ZeroTimeRunsWithRequiredText(t *testing.T) {
	e := NewEngine()

	err := e.Run(
		RequiredDate("Hire date", time.Time{}),
		Required("First name", ""),
	)
	require.NotNil(t, err)
	assert.Equal(t, "Hire date is required", err.Message)

	err = e.Run(
		Required("First name", ""),
		RequiredDate("Hire date", time.Time{}),
	)
	require.NotNil(t, err)
	assert.Equal(t, "First name is required", err.Message)

	assert.Nil(t, e.Run(RequiredDate("Hire date", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))))
}
