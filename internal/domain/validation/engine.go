// Package validation evaluates field rules for school records.
//
// Rules are grouped into stages that always run in the same order: required
// text, not-in-future dates, formats, numeric ranges and cross-field checks.
// Evaluation stops at the first failing rule.
package validation

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Stage orders rule evaluation. Lower stages run first.
type Stage int

const (
	StageRequired Stage = iota + 1
	StageNotFuture
	StageFormat
	StageRange
	StageCrossField
)

// Format tags registered on the engine.
const (
	TagEmployeeNumber = "employee_number"
	TagStudentNumber  = "student_number"
	TagCourseCode     = "course_code"
)

var formats = map[string]*regexp.Regexp{
	TagEmployeeNumber: regexp.MustCompile(`^T\d{3}$`),
	TagStudentNumber:  regexp.MustCompile(`^N\d{4}$`),
	TagCourseCode:     regexp.MustCompile(`^[A-Za-z]{4}\d{4}$`),
}

// Check is a single rule applied to one field value.
type Check struct {
	Stage   Stage
	Field   string
	Value   any
	Other   any // compared value for cross-field tags such as ltefield
	Tag     string
	Message string
}

// FieldError describes the first rule a candidate failed.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Engine runs ordered checks against go-playground/validator tags.
type Engine struct {
	validate *validator.Validate
}

// NewEngine creates an engine with the identifier format tags registered.
func NewEngine() *Engine {
	v := validator.New()
	for tag, re := range formats {
		re := re
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return &Engine{validate: v}
}

// Run evaluates checks stage by stage, preserving declaration order within a
// stage, and returns the first failure or nil.
func (e *Engine) Run(checks ...Check) *FieldError {
	ordered := make([]Check, len(checks))
	copy(ordered, checks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Stage < ordered[j].Stage
	})

	for _, c := range ordered {
		var err error
		if c.Other != nil {
			err = e.validate.VarWithValue(c.Value, c.Other, c.Tag)
		} else {
			err = e.validate.Var(c.Value, c.Tag)
		}
		if err != nil {
			return &FieldError{Field: c.Field, Message: c.Message}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Check constructors
// ─────────────────────────────────────────────────────────────────────────────

// Required rejects empty text.
func Required(field, value string) Check {
	return Check{
		Stage:   StageRequired,
		Field:   field,
		Value:   value,
		Tag:     "required",
		Message: field + " is required",
	}
}

// RequiredDate rejects the zero time, which is what a missing or blank date
// decodes to.
func RequiredDate(field string, value time.Time) Check {
	return Check{
		Stage:   StageRequired,
		Field:   field,
		Value:   value,
		Tag:     "required",
		Message: field + " is required",
	}
}

// NotFuture rejects dates strictly after endOfToday.
func NotFuture(field string, value, endOfToday any) Check {
	return Check{
		Stage:   StageNotFuture,
		Field:   field,
		Value:   value,
		Other:   endOfToday,
		Tag:     "ltefield",
		Message: field + " cannot be in the future",
	}
}

// Format requires value to match the registered pattern for tag.
func Format(field, value, tag, message string) Check {
	return Check{
		Stage:   StageFormat,
		Field:   field,
		Value:   value,
		Tag:     tag,
		Message: message,
	}
}

// Positive requires an amount strictly greater than zero.
func Positive(field string, value int64) Check {
	return Check{
		Stage:   StageRange,
		Field:   field,
		Value:   value,
		Tag:     "gt=0",
		Message: field + " must be greater than zero",
	}
}

// AtMost requires an amount less than or equal to max.
func AtMost(field string, value, max int64, message string) Check {
	return Check{
		Stage:   StageRange,
		Field:   field,
		Value:   value,
		Tag:     "lte=" + strconv.FormatInt(max, 10),
		Message: message,
	}
}

// NotAfter requires value to be less than or equal to other.
func NotAfter(field string, value, other any, message string) Check {
	return Check{
		Stage:   StageCrossField,
		Field:   field,
		Value:   value,
		Other:   other,
		Tag:     "ltefield",
		Message: message,
	}
}
