package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRequest is the body of POST and PUT /api/teachers.
type TeacherRequest struct {
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	EmployeeNumber string      `json:"employee_number"`
	HireDate       string      `json:"hire_date"`
	Salary         json.Number `json:"salary"`
}

func (r TeacherRequest) toDomain(loc *time.Location) (teacher.Teacher, error) {
	hired, err := parseDate("Hire date", r.HireDate, loc)
	if err != nil {
		return teacher.Teacher{}, err
	}
	salary, err := parseSalary(r.Salary)
	if err != nil {
		return teacher.Teacher{}, err
	}
	return teacher.Teacher{
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		EmployeeNumber: strings.TrimSpace(r.EmployeeNumber),
		HireDate:       hired,
		Salary:         salary,
	}, nil
}

// StudentRequest is the body of POST and PUT /api/students.
type StudentRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	StudentNumber  string `json:"student_number"`
	EnrollmentDate string `json:"enrollment_date"`
}

func (r StudentRequest) toDomain(loc *time.Location) (student.Student, error) {
	enrolled, err := parseDate("Enrollment date", r.EnrollmentDate, loc)
	if err != nil {
		return student.Student{}, err
	}
	return student.Student{
		FirstName:      strings.TrimSpace(r.FirstName),
		LastName:       strings.TrimSpace(r.LastName),
		StudentNumber:  strings.TrimSpace(r.StudentNumber),
		EnrollmentDate: enrolled,
	}, nil
}

// CourseRequest is the body of POST and PUT /api/courses. ID is required on
// POST and ignored on PUT.
type CourseRequest struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	TeacherID  int64  `json:"teacher_id"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
}

func (r CourseRequest) toDomain(loc *time.Location) (course.Course, error) {
	start, err := parseDate("Start date", r.StartDate, loc)
	if err != nil {
		return course.Course{}, err
	}
	finish, err := parseDate("Finish date", r.FinishDate, loc)
	if err != nil {
		return course.Course{}, err
	}
	return course.Course{
		ID:         r.ID,
		Code:       strings.TrimSpace(r.Code),
		Name:       strings.TrimSpace(r.Name),
		TeacherID:  r.TeacherID,
		StartDate:  start,
		FinishDate: finish,
	}, nil
}

// requestError is a malformed request that never reaches the facade.
type requestError struct {
	message string
}

func (e *requestError) Error() string { return e.message }

// parseDate leaves a blank date as the zero time so the Required stage
// reports it in rule order.
func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := timeutil.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, &requestError{message: fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)}
	}
	return t, nil
}

func queryDate(field, value string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, &requestError{message: field + " is required"}
	}
	return parseDate(field, value, loc)
}

func parseSalary(n json.Number) (shared.Money, error) {
	if n == "" {
		return 0, nil
	}
	m, err := shared.ParseMoney(n.String())
	switch {
	case errors.Is(err, shared.ErrMoneyScale):
		return 0, &requestError{message: "Salary must have at most 2 decimal places"}
	case errors.Is(err, shared.ErrMoneyRange):
		return 0, &requestError{message: teacher.MsgSalaryRange}
	case err != nil:
		return 0, &requestError{message: "Salary must be a number"}
	}
	return m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE BODIES
// ══════════════════════════════════════════════════════════════════════════════

// TeacherDTO is a teacher as returned by the API.
type TeacherDTO struct {
	ID             int64        `json:"id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	EmployeeNumber string       `json:"employee_number"`
	HireDate       string       `json:"hire_date"`
	Salary         shared.Money `json:"salary"`
}

func newTeacherDTO(t *teacher.Teacher) TeacherDTO {
	return TeacherDTO{
		ID:             t.ID,
		FirstName:      t.FirstName,
		LastName:       t.LastName,
		EmployeeNumber: t.EmployeeNumber,
		HireDate:       timeutil.FormatDate(t.HireDate),
		Salary:         t.Salary,
	}
}

// StudentDTO is a student as returned by the API.
type StudentDTO struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	StudentNumber  string `json:"student_number"`
	EnrollmentDate string `json:"enrollment_date"`
}

func newStudentDTO(s *student.Student) StudentDTO {
	return StudentDTO{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		StudentNumber:  s.StudentNumber,
		EnrollmentDate: timeutil.FormatDate(s.EnrollmentDate),
	}
}

// CourseDTO is a course as returned by the API.
type CourseDTO struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	TeacherID  int64  `json:"teacher_id"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
}

func newCourseDTO(c *course.Course) CourseDTO {
	return CourseDTO{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		TeacherID:  c.TeacherID,
		StartDate:  timeutil.FormatDate(c.StartDate),
		FinishDate: timeutil.FormatDate(c.FinishDate),
	}
}

func mapAll[T, D any](items []*T, convert func(*T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

// CreatedDTO is returned by POST endpoints.
type CreatedDTO struct {
	ID int64 `json:"id"`
}
