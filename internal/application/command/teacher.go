package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/domain/teacher"
	"github.com/schoolapp/school-records/internal/domain/validation"
	"github.com/schoolapp/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// TeacherHandler handles teacher writes.
type TeacherHandler struct {
	repo         teacher.Repository
	engine       *validation.Engine
	clock        timeutil.Clock
	cache        shared.RecordCache
	deletePolicy teacher.DeletePolicy
	logger       *slog.Logger
}

// NewTeacherHandler creates a new TeacherHandler. A nil cache disables
// invalidation; an empty policy selects teacher.DeleteOrphan.
func NewTeacherHandler(
	repo teacher.Repository,
	engine *validation.Engine,
	clock timeutil.Clock,
	cache shared.RecordCache,
	deletePolicy teacher.DeletePolicy,
	logger *slog.Logger,
) *TeacherHandler {
	if cache == nil {
		cache = shared.NopCache{}
	}
	if deletePolicy == "" {
		deletePolicy = teacher.DeleteOrphan
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TeacherHandler{
		repo:         repo,
		engine:       engine,
		clock:        clock,
		cache:        cache,
		deletePolicy: deletePolicy,
		logger:       logger,
	}
}

// Add validates t, checks that its employee number is free and inserts it.
// It returns the generated id.
func (h *TeacherHandler) Add(ctx context.Context, t teacher.Teacher) (int64, error) {
	const op = "Add"

	if err := t.Validate(h.engine, h.clock.Now(), op); err != nil {
		return 0, h.reject(op, err)
	}

	taken, err := h.repo.EmployeeNumberTaken(ctx, t.EmployeeNumber, 0)
	if err != nil {
		return 0, h.reject(op, err)
	}
	if taken {
		return 0, h.reject(op, shared.Conflict(teacher.Domain, op, teacher.MsgEmployeeNumberTaken))
	}

	id, err := h.repo.Insert(ctx, &t)
	if err != nil {
		return 0, h.reject(op, err)
	}

	h.logger.Info("teacher added", "teacher_id", id, "employee_number", t.EmployeeNumber)
	return id, nil
}

// Update validates t and overwrites the teacher with the given id. The
// teacher's own row is excluded from the uniqueness check.
func (h *TeacherHandler) Update(ctx context.Context, id int64, t teacher.Teacher) error {
	const op = "Update"
	t.ID = id

	if err := t.Validate(h.engine, h.clock.Now(), op); err != nil {
		return h.reject(op, err)
	}

	taken, err := h.repo.EmployeeNumberTaken(ctx, t.EmployeeNumber, id)
	if err != nil {
		return h.reject(op, err)
	}
	if taken {
		return h.reject(op, shared.Conflict(teacher.Domain, op, teacher.MsgEmployeeNumberTaken))
	}

	if err := evictBefore(ctx, h.cache, teacher.Domain, op, id); err != nil {
		return h.reject(op, err)
	}
	if err := h.repo.Update(ctx, &t); err != nil {
		return h.reject(op, err)
	}

	h.evict(ctx, teacher.Domain, id)
	return nil
}

// Delete removes the teacher according to the configured delete policy.
func (h *TeacherHandler) Delete(ctx context.Context, id int64) error {
	const op = "Delete"

	if err := evictBefore(ctx, h.cache, teacher.Domain, op, id); err != nil {
		return h.reject(op, err)
	}
	if h.deletePolicy == teacher.DeleteCascade {
		if err := h.cache.EvictAll(ctx, course.Domain); err != nil {
			return h.reject(op, fmt.Errorf("teacher %s %d: evict cached courses: %w", op, id, err))
		}
	}

	var err error
	switch h.deletePolicy {
	case teacher.DeleteCascade:
		err = h.repo.DeleteWithCourses(ctx, id)
	case teacher.DeleteRestrict:
		err = h.deleteRestricted(ctx, id)
	default:
		err = h.repo.Delete(ctx, id)
	}
	if err != nil {
		return h.reject(op, err)
	}

	h.evict(ctx, teacher.Domain, id)
	if h.deletePolicy == teacher.DeleteCascade {
		if err := h.cache.EvictAll(ctx, course.Domain); err != nil {
			h.logger.Warn("cache eviction failed", "entity", course.Domain, "error", err)
		}
	}

	h.logger.Info("teacher deleted", "teacher_id", id, "policy", string(h.deletePolicy))
	return nil
}

func (h *TeacherHandler) deleteRestricted(ctx context.Context, id int64) error {
	exists, err := h.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return teacher.NotFound("Delete", id)
	}

	hasCourses, err := h.repo.HasCourses(ctx, id)
	if err != nil {
		return err
	}
	if hasCourses {
		return shared.Conflict(teacher.Domain, "Delete", teacher.MsgHasCourses)
	}
	return h.repo.Delete(ctx, id)
}

func (h *TeacherHandler) reject(op string, err error) error {
	return logRejected(h.logger, teacher.Domain, op, err)
}

func (h *TeacherHandler) evict(ctx context.Context, entity string, id int64) {
	evict(ctx, h.cache, h.logger, entity, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

// evictBefore drops a cached record ahead of a write to it. A failure aborts
// the write, otherwise the stale entry would be served until it expires.
func evictBefore(ctx context.Context, cache shared.RecordCache, entity, op string, id int64) error {
	if err := cache.Evict(ctx, entity, id); err != nil {
		return fmt.Errorf("%s %s %d: evict cached record: %w", entity, op, id, err)
	}
	return nil
}

// logRejected logs a failed write and returns err unchanged. Client errors are
// logged at debug, store failures at error.
func logRejected(logger *slog.Logger, entity, op string, err error) error {
	outcome := shared.Classify(err)
	if outcome == shared.OutcomeFailure {
		logger.Error("write failed", "entity", entity, "op", op, "error", err)
		return err
	}
	logger.Debug("write rejected", "entity", entity, "op", op, "kind", outcome.String(), "reason", shared.Message(err))
	return err
}

// evict drops a cached record after a write, removing anything a concurrent
// read stored in between. Failures are logged only.
func evict(ctx context.Context, cache shared.RecordCache, logger *slog.Logger, entity string, id int64) {
	if err := cache.Evict(ctx, entity, id); err != nil {
		logger.Warn("cache eviction failed", "entity", entity, "id", id, "error", err)
	}
}
