package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/application/apptest"
	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/pkg/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(data *apptest.Dataset, cache *apptest.Cache, policies Policies) *Facade {
	opts := Options{
		Clock:    timeutil.FixedClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)),
		Policies: policies,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if cache != nil {
		opts.Cache = cache
	}
	return NewFacade(Repositories{
		Teachers: data.Teachers(),
		Students: data.Students(),
		Courses:  data.Courses(),
	}, opts)
}

func john() teacher.Teacher {
	return teacher.Teacher{
		FirstName:      "John",
		LastName:       "Doe",
		EmployeeNumber: "T001",
		HireDate:       timeutil.Date(2023, 1, 1, time.UTC),
		Salary:         shared.Units(50000),
	}
}

func intro(id int64) course.Course {
	return course.Course{
		ID:         id,
		Code:       "ABCD1234",
		Name:       "Intro",
		TeacherID:  1,
		StartDate:  timeutil.Date(2023, 9, 1, time.UTC),
		FinishDate: timeutil.Date(2023, 12, 1, time.UTC),
	}
}

func TestFacade_ExampleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFacade(apptest.NewDataset(), nil, DefaultPolicies())

	id, err := f.AddTeacher(ctx, john())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	found, err := f.FindTeacher(ctx, id)
	require.NoError(t, err)
	want := john()
	want.ID = id
	assert.Equal(t, &want, found)

	courseID, err := f.AddCourse(ctx, intro(10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), courseID)

	_, err = f.AddCourse(ctx, intro(11))
	require.Error(t, err)
	assert.Equal(t, shared.OutcomeConflict, shared.Classify(err))
	assert.Equal(t, "Course with this code already exists", shared.Message(err))

	byTeacher, err := f.FindCoursesByTeacherId(ctx, id)
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, "Intro", byTeacher[0].Name)
}

func TestFacade_DeleteTeacher(t *testing.T) {
	ctx := context.Background()
	f := newFacade(apptest.NewDataset(), nil, DefaultPolicies())

	err := f.DeleteTeacher(ctx, 7)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))

	id, err := f.AddTeacher(ctx, john())
	require.NoError(t, err)
	require.NoError(t, f.DeleteTeacher(ctx, id))

	_, err = f.FindTeacher(ctx, id)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
}

// Under the default policy a deleted teacher's courses stay behind with a
// teacher id that no longer resolves.
func TestFacade_DeleteTeacher_LeavesOrphanedCourses(t *testing.T) {
	ctx := context.Background()
	f := newFacade(apptest.NewDataset(), nil, DefaultPolicies())

	id, err := f.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = f.AddCourse(ctx, intro(10))
	require.NoError(t, err)

	require.NoError(t, f.DeleteTeacher(ctx, id))

	orphan, err := f.FindCourse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, id, orphan.TeacherID)

	_, err = f.FindTeacher(ctx, orphan.TeacherID)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))

	byTeacher, err := f.FindCoursesByTeacherId(ctx, id)
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	assert.Equal(t, int64(10), byTeacher[0].ID)
}

func TestFacade_DeleteTeacher_Policies(t *testing.T) {
	ctx := context.Background()

	t.Run("restrict", func(t *testing.T) {
		f := newFacade(apptest.NewDataset(), nil, Policies{Course: course.DefaultRules(), TeacherDelete: teacher.DeleteRestrict})
		id, err := f.AddTeacher(ctx, john())
		require.NoError(t, err)
		_, err = f.AddCourse(ctx, intro(10))
		require.NoError(t, err)

		err = f.DeleteTeacher(ctx, id)
		assert.Equal(t, shared.OutcomeConflict, shared.Classify(err))
		assert.Equal(t, teacher.MsgHasCourses, shared.Message(err))
	})

	t.Run("cascade", func(t *testing.T) {
		f := newFacade(apptest.NewDataset(), nil, Policies{Course: course.DefaultRules(), TeacherDelete: teacher.DeleteCascade})
		id, err := f.AddTeacher(ctx, john())
		require.NoError(t, err)
		_, err = f.AddCourse(ctx, intro(10))
		require.NoError(t, err)

		require.NoError(t, f.DeleteTeacher(ctx, id))

		_, err = f.FindCourse(ctx, 10)
		assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
	})
}

func TestFacade_CourseDateOrderPolicy(t *testing.T) {
	ctx := context.Background()
	backwards := intro(10)
	backwards.StartDate, backwards.FinishDate = backwards.FinishDate, backwards.StartDate

	strict := newFacade(apptest.NewDataset(), nil, DefaultPolicies())
	_, err := strict.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = strict.AddCourse(ctx, backwards)
	assert.Equal(t, shared.OutcomeValidationFailed, shared.Classify(err))
	assert.Equal(t, course.MsgDateOrder, shared.Message(err))

	zero := newFacade(apptest.NewDataset(), nil, Policies{})
	_, err = zero.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = zero.AddCourse(ctx, backwards)
	assert.Equal(t, course.MsgDateOrder, shared.Message(err))

	lenient := newFacade(apptest.NewDataset(), nil, Policies{Course: course.Rules{SkipDateOrder: true}})
	_, err = lenient.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = lenient.AddCourse(ctx, backwards)
	assert.NoError(t, err)
}

func TestFacade_WritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	cache := apptest.NewCache()
	f := newFacade(apptest.NewDataset(), cache, DefaultPolicies())

	id, err := f.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = f.FindTeacher(ctx, id)
	require.NoError(t, err)
	require.True(t, cache.Has(teacher.Domain, id))

	raised := john()
	raised.Salary = shared.Units(65000)
	require.NoError(t, f.UpdateTeacher(ctx, id, raised))
	assert.False(t, cache.Has(teacher.Domain, id))

	got, err := f.FindTeacher(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, shared.Units(65000), got.Salary)
}

func TestFacade_FailedEvictionNeverServesStaleRecords(t *testing.T) {
	ctx := context.Background()
	cache := apptest.NewCache()
	f := newFacade(apptest.NewDataset(), cache, DefaultPolicies())

	id, err := f.AddTeacher(ctx, john())
	require.NoError(t, err)
	_, err = f.FindTeacher(ctx, id)
	require.NoError(t, err)
	require.True(t, cache.Has(teacher.Domain, id))

	cache.Fail = assert.AnError
	raised := john()
	raised.Salary = shared.Units(200)
	assert.Equal(t, shared.OutcomeFailure, shared.Classify(f.UpdateTeacher(ctx, id, raised)))
	assert.Equal(t, shared.OutcomeFailure, shared.Classify(f.DeleteTeacher(ctx, id)))
	cache.Fail = nil

	// The cached copy and the stored row still agree.
	got, err := f.FindTeacher(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, shared.Units(50000), got.Salary)

	require.NoError(t, f.UpdateTeacher(ctx, id, raised))
	got, err = f.FindTeacher(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, shared.Units(200), got.Salary)

	require.NoError(t, f.DeleteTeacher(ctx, id))
	_, err = f.FindTeacher(ctx, id)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
}
