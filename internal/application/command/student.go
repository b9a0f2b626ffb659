package command

import (
	"context"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/student"
	"github.com/schoolapp/school-records/internal/domain/validation"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// StudentHandler handles student writes.
type StudentHandler struct {
	repo   student.Repository
	engine *validation.Engine
	clock  timeutil.Clock
	cache  shared.RecordCache
	logger *slog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	repo student.Repository,
	engine *validation.Engine,
	clock timeutil.Clock,
	cache shared.RecordCache,
	logger *slog.Logger,
) *StudentHandler {
	if cache == nil {
		cache = shared.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentHandler{repo: repo, engine: engine, clock: clock, cache: cache, logger: logger}
}

// Add validates s, checks that its student number is free and inserts it.
func (h *StudentHandler) Add(ctx context.Context, s student.Student) (int64, error) {
	const op = "Add"

	if err := s.Validate(h.engine, h.clock.Now(), op); err != nil {
		return 0, h.reject(op, err)
	}

	taken, err := h.repo.StudentNumberTaken(ctx, s.StudentNumber, 0)
	if err != nil {
		return 0, h.reject(op, err)
	}
	if taken {
		return 0, h.reject(op, shared.Conflict(student.Domain, op, student.MsgStudentNumberTaken))
	}

	id, err := h.repo.Insert(ctx, &s)
	if err != nil {
		return 0, h.reject(op, err)
	}

	h.logger.Info("student added", "student_id", id, "student_number", s.StudentNumber)
	return id, nil
}

// Update validates s and overwrites the student with the given id.
func (h *StudentHandler) Update(ctx context.Context, id int64, s student.Student) error {
	const op = "Update"
	s.ID = id

	if err := s.Validate(h.engine, h.clock.Now(), op); err != nil {
		return h.reject(op, err)
	}

	taken, err := h.repo.StudentNumberTaken(ctx, s.StudentNumber, id)
	if err != nil {
		return h.reject(op, err)
	}
	if taken {
		return h.reject(op, shared.Conflict(student.Domain, op, student.MsgStudentNumberTaken))
	}

	if err := evictBefore(ctx, h.cache, student.Domain, op, id); err != nil {
		return h.reject(op, err)
	}
	if err := h.repo.Update(ctx, &s); err != nil {
		return h.reject(op, err)
	}

	evict(ctx, h.cache, h.logger, student.Domain, id)
	return nil
}

// Delete removes the student with the given id.
func (h *StudentHandler) Delete(ctx context.Context, id int64) error {
	if err := evictBefore(ctx, h.cache, student.Domain, "Delete", id); err != nil {
		return h.reject("Delete", err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return h.reject("Delete", err)
	}

	evict(ctx, h.cache, h.logger, student.Domain, id)
	h.logger.Info("student deleted", "student_id", id)
	return nil
}

func (h *StudentHandler) reject(op string, err error) error {
	return logRejected(h.logger, student.Domain, op, err)
}
