package query

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/application/apptest"
	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/pkg/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ctx   = context.Background()
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func seed(t *testing.T, data *apptest.Dataset) (int64, int64) {
	t.Helper()

	hires := []time.Time{
		timeutil.Date(2019, 3, 1, time.UTC),
		timeutil.Date(2021, 7, 15, time.UTC),
	}
	var ids []int64
	for i, hired := range hires {
		id, err := data.Teachers().Insert(ctx, &teacher.Teacher{
			FirstName:      "T",
			LastName:       "Example",
			EmployeeNumber: []string{"T001", "T002"}[i],
			HireDate:       hired,
			Salary:         shared.Units(1000),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := data.Courses().Insert(ctx, &course.Course{ID: 10, Code: "ABCD1234", Name: "A", TeacherID: ids[0]})
	require.NoError(t, err)
	_, err = data.Courses().Insert(ctx, &course.Course{ID: 11, Code: "ABCD5678", Name: "B", TeacherID: ids[0]})
	require.NoError(t, err)
	return ids[0], ids[1]
}

func TestTeacherQueries_ListHiredBetween(t *testing.T) {
	data := apptest.NewDataset()
	seed(t, data)
	q := NewTeacherQueries(data.Teachers(), nil, quiet)

	got, err := q.ListHiredBetween(ctx, timeutil.Date(2019, 3, 1, time.UTC), timeutil.Date(2020, 12, 31, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T001", got[0].EmployeeNumber)

	got, err = q.ListHiredBetween(ctx, timeutil.Date(2000, 1, 1, time.UTC), timeutil.Date(2030, 1, 1, time.UTC))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = q.ListHiredBetween(ctx, timeutil.Date(2022, 1, 1, time.UTC), timeutil.Date(2021, 1, 1, time.UTC))
	assert.Equal(t, shared.OutcomeValidationFailed, shared.Classify(err))
	assert.Equal(t, MsgHireRange, shared.Message(err))
}

func TestTeacherQueries_FindReadsThroughCache(t *testing.T) {
	data := apptest.NewDataset()
	first, _ := seed(t, data)
	cache := apptest.NewCache()
	q := NewTeacherQueries(data.Teachers(), cache, quiet)

	got, err := q.Find(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "T001", got.EmployeeNumber)
	assert.True(t, cache.Has(teacher.Domain, first))
	assert.Equal(t, 0, cache.Hits)

	again, err := q.Find(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Hits)
	assert.Equal(t, got.EmployeeNumber, again.EmployeeNumber)
	assert.True(t, got.HireDate.Equal(again.HireDate))

	_, err = q.Find(ctx, 404)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
	assert.Equal(t, "Teacher with ID 404 not found.", shared.Message(err))
	assert.False(t, cache.Has(teacher.Domain, 404))
}

func TestTeacherQueries_CacheFailureFallsBack(t *testing.T) {
	data := apptest.NewDataset()
	first, _ := seed(t, data)
	cache := apptest.NewCache()
	cache.Fail = assert.AnError
	q := NewTeacherQueries(data.Teachers(), cache, quiet)

	got, err := q.Find(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, got.ID)
}

func TestStudentQueries(t *testing.T) {
	data := apptest.NewDataset()
	id, err := data.Students().Insert(ctx, &student.Student{FirstName: "S", LastName: "L", StudentNumber: "N0001"})
	require.NoError(t, err)
	q := NewStudentQueries(data.Students(), nil, nil)

	list, err := q.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := q.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "N0001", got.StudentNumber)

	_, err = q.Find(ctx, 5)
	assert.Equal(t, "Student with ID 5 not found.", shared.Message(err))
}

func TestCourseQueries_ListByTeacher(t *testing.T) {
	data := apptest.NewDataset()
	withCourses, without := seed(t, data)
	q := NewCourseQueries(data.Courses(), data.Teachers(), nil, quiet)

	got, err := q.ListByTeacher(ctx, withCourses)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = q.ListByTeacher(ctx, without)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = q.ListByTeacher(ctx, 404)
	assert.Equal(t, shared.OutcomeNotFound, shared.Classify(err))
	assert.Equal(t, "Teacher with ID 404 not found.", shared.Message(err))
}

func TestCourseQueries_ListByTeacher_OrphanedCourses(t *testing.T) {
	data := apptest.NewDataset()
	withCourses, _ := seed(t, data)
	require.NoError(t, data.Teachers().Delete(ctx, withCourses))
	q := NewCourseQueries(data.Courses(), data.Teachers(), nil, quiet)

	got, err := q.ListByTeacher(ctx, withCourses)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCourseQueries_StoreFailure(t *testing.T) {
	data := apptest.NewDataset()
	repo := data.Courses()
	repo.Fail = true
	q := NewCourseQueries(repo, data.Teachers(), nil, quiet)

	_, err := q.List(ctx)
	assert.ErrorIs(t, err, apptest.ErrStoreDown)
	assert.Equal(t, shared.OutcomeFailure, shared.Classify(err))
}
