package main

import (
	"context"
	"testing"
	"time"

	"github.com/schoolapp/school-records/internal/application"
	"github.com/schoolapp/school-records/internal/application/apptest"
	"github.com/schoolapp/school-records/pkg/logger"
	"github.com/schoolapp/school-records/pkg/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_IsRepeatable(t *testing.T) {
	data := apptest.NewDataset()
	facade := application.NewFacade(application.Repositories{
		Teachers: data.Teachers(),
		Students: data.Students(),
		Courses:  data.Courses(),
	}, application.Options{
		Clock:  timeutil.FixedClock(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)),
		Logger: logger.Discard(),
	})

	ctx := context.Background()
	require.NoError(t, seed(ctx, facade, time.UTC, logger.Discard()))
	assert.Equal(t, 2, data.CourseCount())

	writes := data.Writes
	require.NoError(t, seed(ctx, facade, time.UTC, logger.Discard()))
	assert.Equal(t, writes, data.Writes)

	courses, err := facade.FindCoursesByTeacherId(ctx, 1)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "ABCD1234", courses[0].Code)
}
