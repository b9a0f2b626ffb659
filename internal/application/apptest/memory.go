// Package apptest provides in-memory repositories and a recording cache for
// application and interface tests.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/teacher"
)

// ErrStoreDown is returned by a repository whose Fail field is set.
var ErrStoreDown = errors.New("store unavailable")

// ══════════════════════════════════════════════════════════════════════════════
// DATASET
// ══════════════════════════════════════════════════════════════════════════════

// Dataset holds the three tables. Courses are looked up by teacher without
// any foreign key, so deleting a teacher leaves its courses in place.
type Dataset struct {
	mu       sync.Mutex
	teachers map[int64]teacher.Teacher
	students map[int64]student.Student
	courses  map[int64]course.Course
	nextID   int64

	// Writes counts mutating calls across all repositories.
	Writes int
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		teachers: make(map[int64]teacher.Teacher),
		students: make(map[int64]student.Student),
		courses:  make(map[int64]course.Course),
	}
}

// Teachers returns the teacher repository over d.
func (d *Dataset) Teachers() *TeacherRepo { return &TeacherRepo{d: d} }

// Students returns the student repository over d.
func (d *Dataset) Students() *StudentRepo { return &StudentRepo{d: d} }

// Courses returns the course repository over d.
func (d *Dataset) Courses() *CourseRepo { return &CourseRepo{d: d} }

// CourseCount returns the number of stored courses.
func (d *Dataset) CourseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.courses)
}

func (d *Dataset) id() int64 {
	d.nextID++
	return d.nextID
}

// ─────────────────────────────────────────────────────────────────────────────
// Teachers
// ─────────────────────────────────────────────────────────────────────────────

// TeacherRepo implements teacher.Repository in memory.
type TeacherRepo struct {
	d    *Dataset
	Fail bool
}

func (r *TeacherRepo) List(context.Context) ([]*teacher.Teacher, error) {
	return r.filter(func(teacher.Teacher) bool { return true })
}

func (r *TeacherRepo) ListHiredBetween(_ context.Context, from, to time.Time) ([]*teacher.Teacher, error) {
	return r.filter(func(t teacher.Teacher) bool {
		return !t.HireDate.Before(from) && !t.HireDate.After(to)
	})
}

func (r *TeacherRepo) filter(keep func(teacher.Teacher) bool) ([]*teacher.Teacher, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	out := make([]*teacher.Teacher, 0, len(r.d.teachers))
	for _, t := range r.d.teachers {
		if keep(t) {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeacherRepo) Find(_ context.Context, id int64) (*teacher.Teacher, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	t, ok := r.d.teachers[id]
	if !ok {
		return nil, teacher.NotFound("Find", id)
	}
	return &t, nil
}

func (r *TeacherRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	_, ok := r.d.teachers[id]
	return ok, nil
}

func (r *TeacherRepo) EmployeeNumberTaken(_ context.Context, number string, excludeID int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, t := range r.d.teachers {
		if t.EmployeeNumber == number && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *TeacherRepo) Insert(_ context.Context, t *teacher.Teacher) (int64, error) {
	if r.Fail {
		return 0, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	row := *t
	row.ID = r.d.id()
	r.d.teachers[row.ID] = row
	r.d.Writes++
	return row.ID, nil
}

func (r *TeacherRepo) Update(_ context.Context, t *teacher.Teacher) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teachers[t.ID]; !ok {
		return teacher.NotFound("Update", t.ID)
	}
	r.d.teachers[t.ID] = *t
	r.d.Writes++
	return nil
}

func (r *TeacherRepo) Delete(_ context.Context, id int64) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teachers[id]; !ok {
		return teacher.NotFound("Delete", id)
	}
	delete(r.d.teachers, id)
	r.d.Writes++
	return nil
}

func (r *TeacherRepo) DeleteWithCourses(_ context.Context, id int64) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teachers[id]; !ok {
		return teacher.NotFound("Delete", id)
	}
	for cid, c := range r.d.courses {
		if c.TeacherID == id {
			delete(r.d.courses, cid)
		}
	}
	delete(r.d.teachers, id)
	r.d.Writes++
	return nil
}

func (r *TeacherRepo) HasCourses(_ context.Context, id int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, c := range r.d.courses {
		if c.TeacherID == id {
			return true, nil
		}
	}
	return false, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// StudentRepo implements student.Repository in memory.
type StudentRepo struct {
	d    *Dataset
	Fail bool
}

func (r *StudentRepo) List(context.Context) ([]*student.Student, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	out := make([]*student.Student, 0, len(r.d.students))
	for _, s := range r.d.students {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StudentRepo) Find(_ context.Context, id int64) (*student.Student, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	s, ok := r.d.students[id]
	if !ok {
		return nil, student.NotFound("Find", id)
	}
	return &s, nil
}

func (r *StudentRepo) StudentNumberTaken(_ context.Context, number string, excludeID int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, s := range r.d.students {
		if s.StudentNumber == number && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *StudentRepo) Insert(_ context.Context, s *student.Student) (int64, error) {
	if r.Fail {
		return 0, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	row := *s
	row.ID = r.d.id()
	r.d.students[row.ID] = row
	r.d.Writes++
	return row.ID, nil
}

func (r *StudentRepo) Update(_ context.Context, s *student.Student) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.students[s.ID]; !ok {
		return student.NotFound("Update", s.ID)
	}
	r.d.students[s.ID] = *s
	r.d.Writes++
	return nil
}

func (r *StudentRepo) Delete(_ context.Context, id int64) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.students[id]; !ok {
		return student.NotFound("Delete", id)
	}
	delete(r.d.students, id)
	r.d.Writes++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CourseRepo implements course.Repository in memory.
type CourseRepo struct {
	d    *Dataset
	Fail bool
}

func (r *CourseRepo) List(context.Context) ([]*course.Course, error) {
	return r.filter(func(course.Course) bool { return true })
}

func (r *CourseRepo) ListByTeacher(_ context.Context, teacherID int64) ([]*course.Course, error) {
	return r.filter(func(c course.Course) bool { return c.TeacherID == teacherID })
}

func (r *CourseRepo) filter(keep func(course.Course) bool) ([]*course.Course, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	out := make([]*course.Course, 0, len(r.d.courses))
	for _, c := range r.d.courses {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CourseRepo) Find(_ context.Context, id int64) (*course.Course, error) {
	if r.Fail {
		return nil, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	c, ok := r.d.courses[id]
	if !ok {
		return nil, course.NotFound("Find", id)
	}
	return &c, nil
}

func (r *CourseRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	_, ok := r.d.courses[id]
	return ok, nil
}

func (r *CourseRepo) CodeTaken(_ context.Context, code string, excludeID int64) (bool, error) {
	if r.Fail {
		return false, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for _, c := range r.d.courses {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CourseRepo) Insert(_ context.Context, c *course.Course) (int64, error) {
	if r.Fail {
		return 0, ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	r.d.courses[c.ID] = *c
	r.d.Writes++
	return c.ID, nil
}

func (r *CourseRepo) Update(_ context.Context, c *course.Course) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.courses[c.ID]; !ok {
		return course.NotFound("Update", c.ID)
	}
	r.d.courses[c.ID] = *c
	r.d.Writes++
	return nil
}

func (r *CourseRepo) Delete(_ context.Context, id int64) error {
	if r.Fail {
		return ErrStoreDown
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.courses[id]; !ok {
		return course.NotFound("Delete", id)
	}
	delete(r.d.courses, id)
	r.d.Writes++
	return nil
}
