package command

import (
	"context"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/validation"
)

// CourseHandler handles course writes.
type CourseHandler struct {
	repo   course.Repository
	refs   *ReferentialRules
	engine *validation.Engine
	rules  course.Rules
	cache  shared.RecordCache
	logger *slog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(
	repo course.Repository,
	refs *ReferentialRules,
	engine *validation.Engine,
	rules course.Rules,
	cache shared.RecordCache,
	logger *slog.Logger,
) *CourseHandler {
	if cache == nil {
		cache = shared.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{
		repo:   repo,
		refs:   refs,
		engine: engine,
		rules:  rules,
		cache:  cache,
		logger: logger,
	}
}

// Add validates c, checks its code and caller-supplied id are free and that
// its teacher exists, then inserts it. It returns c.ID.
func (h *CourseHandler) Add(ctx context.Context, c course.Course) (int64, error) {
	const op = "Add"

	if err := c.Validate(h.engine, h.rules, op); err != nil {
		return 0, h.reject(op, err)
	}

	taken, err := h.repo.CodeTaken(ctx, c.Code, 0)
	if err != nil {
		return 0, h.reject(op, err)
	}
	if taken {
		return 0, h.reject(op, shared.Conflict(course.Domain, op, course.MsgCodeTaken))
	}

	idTaken, err := h.repo.Exists(ctx, c.ID)
	if err != nil {
		return 0, h.reject(op, err)
	}
	if idTaken {
		return 0, h.reject(op, shared.Conflict(course.Domain, op, course.MsgIDTaken))
	}

	if err := h.refs.RequireTeacher(ctx, c.TeacherID, op); err != nil {
		return 0, h.reject(op, err)
	}

	id, err := h.repo.Insert(ctx, &c)
	if err != nil {
		return 0, h.reject(op, err)
	}

	h.logger.Info("course added", "course_id", id, "course_code", c.Code, "teacher_id", c.TeacherID)
	return id, nil
}

// Update validates c, re-checks code uniqueness excluding the course itself
// and the teacher reference, then overwrites the course with the given id.
func (h *CourseHandler) Update(ctx context.Context, id int64, c course.Course) error {
	const op = "Update"
	c.ID = id

	if err := c.Validate(h.engine, h.rules, op); err != nil {
		return h.reject(op, err)
	}

	taken, err := h.repo.CodeTaken(ctx, c.Code, id)
	if err != nil {
		return h.reject(op, err)
	}
	if taken {
		return h.reject(op, shared.Conflict(course.Domain, op, course.MsgCodeTaken))
	}

	if err := h.refs.RequireTeacher(ctx, c.TeacherID, op); err != nil {
		return h.reject(op, err)
	}

	if err := evictBefore(ctx, h.cache, course.Domain, op, id); err != nil {
		return h.reject(op, err)
	}
	if err := h.repo.Update(ctx, &c); err != nil {
		return h.reject(op, err)
	}

	evict(ctx, h.cache, h.logger, course.Domain, id)
	return nil
}

// Delete removes the course with the given id.
func (h *CourseHandler) Delete(ctx context.Context, id int64) error {
	if err := evictBefore(ctx, h.cache, course.Domain, "Delete", id); err != nil {
		return h.reject("Delete", err)
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		return h.reject("Delete", err)
	}

	evict(ctx, h.cache, h.logger, course.Domain, id)
	h.logger.Info("course deleted", "course_id", id)
	return nil
}

func (h *CourseHandler) reject(op string, err error) error {
	return logRejected(h.logger, course.Domain, op, err)
}
