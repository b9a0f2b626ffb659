// Package application wires command and query handlers into the single
// entry point used by the HTTP layer and the seeder.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolapp/school-records/internal/application/command"
	"github.com/schoolapp/school-records/internal/application/query"
	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/internal/domain/validation"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// Repositories groups the storage contracts the facade runs on.
type Repositories struct {
	Teachers teacher.Repository
	Students student.Repository
	Courses  course.Repository
}

// Policies selects behavior that differs between deployments.
type Policies struct {
	Course        course.Rules
	TeacherDelete teacher.DeletePolicy
}

// DefaultPolicies enforces course date order and leaves courses of a deleted
// teacher in place.
func DefaultPolicies() Policies {
	return Policies{Course: course.DefaultRules(), TeacherDelete: teacher.DeleteOrphan}
}

// Options holds the optional collaborators of a Facade.
type Options struct {
	Clock    timeutil.Clock
	Cache    shared.RecordCache
	Policies Policies
	Logger   *slog.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// FACADE
// ══════════════════════════════════════════════════════════════════════════════

// Facade exposes every list, find and write operation for teachers, students
// and courses. Errors classify with shared.Classify.
type Facade struct {
	teacherCmd *command.TeacherHandler
	studentCmd *command.StudentHandler
	courseCmd  *command.CourseHandler

	teachers *query.TeacherQueries
	students *query.StudentQueries
	courses  *query.CourseQueries
}

// NewFacade creates a Facade over repos.
func NewFacade(repos Repositories, opts Options) *Facade {
	if opts.Clock == nil {
		opts.Clock = timeutil.NewSystemClock(time.UTC)
	}
	if opts.Cache == nil {
		opts.Cache = shared.NopCache{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Policies.TeacherDelete == "" {
		opts.Policies.TeacherDelete = teacher.DeleteOrphan
	}

	engine := validation.NewEngine()
	logger := opts.Logger.With("component", "facade")

	return &Facade{
		teacherCmd: command.NewTeacherHandler(repos.Teachers, engine, opts.Clock, opts.Cache, opts.Policies.TeacherDelete, logger),
		studentCmd: command.NewStudentHandler(repos.Students, engine, opts.Clock, opts.Cache, logger),
		courseCmd: command.NewCourseHandler(
			repos.Courses,
			command.NewReferentialRules(repos.Teachers),
			engine,
			opts.Policies.Course,
			opts.Cache,
			logger,
		),
		teachers: query.NewTeacherQueries(repos.Teachers, opts.Cache, logger),
		students: query.NewStudentQueries(repos.Students, opts.Cache, logger),
		courses:  query.NewCourseQueries(repos.Courses, repos.Teachers, opts.Cache, logger),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Teachers
// ─────────────────────────────────────────────────────────────────────────────

func (f *Facade) ListTeachers(ctx context.Context) ([]*teacher.Teacher, error) {
	return f.teachers.List(ctx)
}

// ListTeachersHiredBetween returns teachers hired within [from, to].
func (f *Facade) ListTeachersHiredBetween(ctx context.Context, from, to time.Time) ([]*teacher.Teacher, error) {
	return f.teachers.ListHiredBetween(ctx, from, to)
}

func (f *Facade) FindTeacher(ctx context.Context, id int64) (*teacher.Teacher, error) {
	return f.teachers.Find(ctx, id)
}

// AddTeacher returns the generated teacher id.
func (f *Facade) AddTeacher(ctx context.Context, t teacher.Teacher) (int64, error) {
	return f.teacherCmd.Add(ctx, t)
}

func (f *Facade) UpdateTeacher(ctx context.Context, id int64, t teacher.Teacher) error {
	return f.teacherCmd.Update(ctx, id, t)
}

// DeleteTeacher applies the configured teacher delete policy.
func (f *Facade) DeleteTeacher(ctx context.Context, id int64) error {
	return f.teacherCmd.Delete(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

func (f *Facade) ListStudents(ctx context.Context) ([]*student.Student, error) {
	return f.students.List(ctx)
}

func (f *Facade) FindStudent(ctx context.Context, id int64) (*student.Student, error) {
	return f.students.Find(ctx, id)
}

// AddStudent returns the generated student id.
func (f *Facade) AddStudent(ctx context.Context, s student.Student) (int64, error) {
	return f.studentCmd.Add(ctx, s)
}

func (f *Facade) UpdateStudent(ctx context.Context, id int64, s student.Student) error {
	return f.studentCmd.Update(ctx, id, s)
}

func (f *Facade) DeleteStudent(ctx context.Context, id int64) error {
	return f.studentCmd.Delete(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

func (f *Facade) ListCourses(ctx context.Context) ([]*course.Course, error) {
	return f.courses.List(ctx)
}

func (f *Facade) FindCourse(ctx context.Context, id int64) (*course.Course, error) {
	return f.courses.Find(ctx, id)
}

// FindCoursesByTeacherId lists the courses that reference teacherID.
func (f *Facade) FindCoursesByTeacherId(ctx context.Context, teacherID int64) ([]*course.Course, error) {
	return f.courses.ListByTeacher(ctx, teacherID)
}

// AddCourse stores c under its caller-supplied id and returns that id.
func (f *Facade) AddCourse(ctx context.Context, c course.Course) (int64, error) {
	return f.courseCmd.Add(ctx, c)
}

func (f *Facade) UpdateCourse(ctx context.Context, id int64, c course.Course) error {
	return f.courseCmd.Update(ctx, id, c)
}

func (f *Facade) DeleteCourse(ctx context.Context, id int64) error {
	return f.courseCmd.Delete(ctx, id)
}
