// Package main loads a small demonstration dataset through the records facade.
// Records that already exist are reported and skipped, so the command can be
// run more than once against the same database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schoolapp/school-records/config"
	"github.com/schoolapp/school-records/internal/application"
	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/postgres"
	"github.com/schoolapp/school-records/internal/infrastructure/persistence/repository"
	"github.com/schoolapp/school-records/pkg/logger"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.Observability.LogLevel),
		Format:  cfg.Observability.LogFormat,
		Service: "school-records-seed",
	})

	conn, err := postgres.NewConnection(ctx, postgres.Config{
		URL:            cfg.Database.URL,
		MaxConns:       2,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if err := postgres.Bootstrap(ctx, conn); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	facade := application.NewFacade(application.Repositories{
		Teachers: repository.NewTeacherRepository(conn),
		Students: repository.NewStudentRepository(conn),
		Courses:  repository.NewCourseRepository(conn),
	}, application.Options{
		Clock:    timeutil.NewSystemClock(cfg.App.Location),
		Policies: cfg.Policies.Application(),
		Logger:   log,
	})

	return seed(ctx, facade, cfg.App.Location, log)
}

// records is the part of the facade the seed writes through.
type records interface {
	AddTeacher(ctx context.Context, t teacher.Teacher) (int64, error)
	AddStudent(ctx context.Context, s student.Student) (int64, error)
	AddCourse(ctx context.Context, c course.Course) (int64, error)
}

type seedCourse struct {
	id       int64
	code     string
	name     string
	employee string
	start    string
	finish   string
}

var (
	seedTeachers = []teacher.Teacher{
		{FirstName: "John", LastName: "Doe", EmployeeNumber: "T001", Salary: shared.Units(50000)},
		{FirstName: "Ada", LastName: "Byron", EmployeeNumber: "T002", Salary: shared.Units(62000)},
	}
	seedHireDates = []string{"2023-01-01", "2019-09-01"}

	seedStudents = []student.Student{
		{FirstName: "Ann", LastName: "Lee", StudentNumber: "N0001"},
		{FirstName: "Bo", LastName: "Kim", StudentNumber: "N0002"},
	}
	seedEnrollments = []string{"2023-09-01", "2024-02-01"}

	seedCourses = []seedCourse{
		{10, "ABCD1234", "Intro", "T001", "2023-09-01", "2023-12-01"},
		{11, "MATH2001", "Linear Algebra", "T002", "2024-02-01", "2024-06-01"},
	}
)

func seed(ctx context.Context, r records, loc *time.Location, log *slog.Logger) error {
	teacherIDs := make(map[string]int64, len(seedTeachers))

	for i, t := range seedTeachers {
		hired, err := timeutil.ParseDate(seedHireDates[i], loc)
		if err != nil {
			return err
		}
		t.HireDate = hired

		id, err := r.AddTeacher(ctx, t)
		if skip, err := outcome(log, "teacher", t.EmployeeNumber, err); skip {
			continue
		} else if err != nil {
			return err
		}
		teacherIDs[t.EmployeeNumber] = id
	}

	for i, s := range seedStudents {
		enrolled, err := timeutil.ParseDate(seedEnrollments[i], loc)
		if err != nil {
			return err
		}
		s.EnrollmentDate = enrolled

		_, err = r.AddStudent(ctx, s)
		if _, err := outcome(log, "student", s.StudentNumber, err); err != nil {
			return err
		}
	}

	for _, sc := range seedCourses {
		teacherID, ok := teacherIDs[sc.employee]
		if !ok {
			log.Info("skipping course of an existing teacher", "code", sc.code, "employee_number", sc.employee)
			continue
		}

		start, err := timeutil.ParseDate(sc.start, loc)
		if err != nil {
			return err
		}
		finish, err := timeutil.ParseDate(sc.finish, loc)
		if err != nil {
			return err
		}

		_, err = r.AddCourse(ctx, course.Course{
			ID:         sc.id,
			Code:       sc.code,
			Name:       sc.name,
			TeacherID:  teacherID,
			StartDate:  start,
			FinishDate: finish,
		})
		if _, err := outcome(log, "course", sc.code, err); err != nil {
			return err
		}
	}

	log.Info("seed completed")
	return nil
}

// outcome reports whether a failed write should be skipped. Conflicts mean
// the record is already there; anything else stops the seed.
func outcome(log *slog.Logger, entity, key string, err error) (bool, error) {
	if err == nil {
		log.Info("seeded", "entity", entity, "key", key)
		return false, nil
	}
	if shared.Classify(err) == shared.OutcomeConflict {
		log.Info("already present", "entity", entity, "key", key, "reason", shared.Message(err))
		return true, nil
	}
	return false, fmt.Errorf("seed %s %s: %w", entity, key, err)
}
