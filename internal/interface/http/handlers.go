package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/schoolapp/school-records/internal/domain/shared"
	"github.com/schoolapp/school-records/internal/interface/http/handlers"
	"github.com/schoolapp/school-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "School Records API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":   "/health",
			"teachers": "/api/teachers",
			"students": "/api/students",
			"courses":  "/api/courses",
		},
	}

	writeJSON(w, r, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Health.Report(r.Context())
	if report.Status == handlers.StatusDown {
		writeJSON(w, r, http.StatusServiceUnavailable, report)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleLive handles the liveness endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListTeachers handles GET /api/teachers[?hired_from=&hired_to=]
func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("hired_from")
	to := r.URL.Query().Get("hired_to")

	if from == "" && to == "" {
		teachers, err := s.deps.Records.ListTeachers(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeList(w, r, mapAll(teachers, newTeacherDTO))
		return
	}

	fromDate, err := queryDate("Hired from date", from, s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	toDate, err := queryDate("Hired to date", to, s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	teachers, err := s.deps.Records.ListTeachersHiredBetween(r.Context(), fromDate, toDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeList(w, r, mapAll(teachers, newTeacherDTO))
}

// handleFindTeacher handles GET /api/teachers/{id}
func (s *Server) handleFindTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	t, err := s.deps.Records.FindTeacher(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newTeacherDTO(t))
}

// handleAddTeacher handles POST /api/teachers
func (s *Server) handleAddTeacher(w http.ResponseWriter, r *http.Request) {
	var req TeacherRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.deps.Records.AddTeacher(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, CreatedDTO{ID: id})
}

// handleUpdateTeacher handles PUT /api/teachers/{id}
func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req TeacherRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Records.UpdateTeacher(r.Context(), id, t); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTeacher handles DELETE /api/teachers/{id}
func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Records.DeleteTeacher(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTeacherCourses handles GET /api/teachers/{id}/courses
func (s *Server) handleTeacherCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	courses, err := s.deps.Records.FindCoursesByTeacherId(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeList(w, r, mapAll(courses, newCourseDTO))
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.deps.Records.ListStudents(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeList(w, r, mapAll(students, newStudentDTO))
}

// handleFindStudent handles GET /api/students/{id}
func (s *Server) handleFindStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	st, err := s.deps.Records.FindStudent(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newStudentDTO(st))
}

// handleAddStudent handles POST /api/students
func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req StudentRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.deps.Records.AddStudent(r.Context(), st)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, CreatedDTO{ID: id})
}

// handleUpdateStudent handles PUT /api/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req StudentRequest
	if !s.decode(w, r, &req) {
		return
	}
	st, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Records.UpdateStudent(r.Context(), id, st); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteStudent handles DELETE /api/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Records.DeleteStudent(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses handles GET /api/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Records.ListCourses(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeList(w, r, mapAll(courses, newCourseDTO))
}

// handleFindCourse handles GET /api/courses/{id}
func (s *Server) handleFindCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	c, err := s.deps.Records.FindCourse(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCourseDTO(c))
}

// handleAddCourse handles POST /api/courses
func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		writeJSONError(w, r, http.StatusBadRequest, "validation_failed", "Course id is required")
		return
	}
	c, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.deps.Records.AddCourse(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, CreatedDTO{ID: id})
}

// handleUpdateCourse handles PUT /api/courses/{id}
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req CourseRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := req.toDomain(s.deps.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Records.UpdateCourse(r.Context(), id, c); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteCourse handles DELETE /api/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Records.DeleteCourse(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST & ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// pathID parses the {id} path value. It writes a 400 and reports false when
// the value is not a positive integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dest. Unknown fields are rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := "Request body must be valid JSON"
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			msg = "Request body has an unknown field"
		}
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", msg)
		return false
	}
	return true
}

func writeList[D any](w http.ResponseWriter, r *http.Request, items []D) {
	writeJSONWithMeta(w, r, http.StatusOK, items, &ResponseMeta{TotalCount: len(items)})
}

// writeError maps a facade error onto an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeJSONError(w, r, http.StatusBadRequest, "validation_failed", reqErr.message)
		return
	}

	outcome := shared.Classify(err)
	switch outcome {
	case shared.OutcomeValidationFailed:
		writeJSONError(w, r, http.StatusBadRequest, outcome.String(), shared.Message(err))
	case shared.OutcomeConflict:
		writeJSONError(w, r, http.StatusConflict, outcome.String(), shared.Message(err))
	case shared.OutcomeNotFound:
		writeJSONError(w, r, http.StatusNotFound, outcome.String(), shared.Message(err))
	default:
		logger.FromContext(r.Context(), s.logger).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSONError(w, r, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}
