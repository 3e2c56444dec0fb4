// Package http implements the REST API for Student Roster Hub.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/internal/domain/student"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Student Roster Hub API",
		"version":     "v1",
		"description": "REST API for the student roster - records, search, and stats",
		"endpoints": map[string]string{
			"health":        "/health",
			"signup":        "/api/v1/auth/signup",
			"signin":        "/api/v1/auth/signin",
			"students":      "/api/v1/students",
			"stats":         "/api/v1/stats",
			"notifications": "/api/v1/notifications",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignUp handles POST /api/v1/auth/signup
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.Auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleSignIn handles POST /api/v1/auth/signin
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSignOut handles POST /api/v1/auth/signout
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
		return
	}

	if err := s.deps.Auth.SignOut(r.Context(), token); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/v1/students
// Supports ?q=<term> (search is accepted as an alias) and
// ?status=<studying|working|graduated>; when both are present they apply
// conjunctively.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	term := getQueryParam(r, "q", getQueryParam(r, "search", ""))

	var status student.Status
	if raw := getQueryParam(r, "status", ""); raw != "" {
		parsed, err := student.ParseStatus(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Unknown status filter")
			return
		}
		status = parsed
	}

	students := s.deps.Roster.Filter(term, status)

	meta := &ResponseMeta{TotalCount: len(students)}
	writeJSONWithMeta(w, r, http.StatusOK, students, meta)
}

// handleGetStudent handles GET /api/v1/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	st, ok := s.deps.Roster.Get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Student not found")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// handleCreateStudent handles POST /api/v1/students
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var form student.FormData
	if !decodeBody(w, r, &form) {
		return
	}

	created, err := s.deps.Roster.Create(r.Context(), form)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logMutation(r, "student created", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateStudent handles PUT /api/v1/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	var form student.FormData
	if !decodeBody(w, r, &form) {
		return
	}

	updated, err := s.deps.Roster.Update(r.Context(), id, form)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logMutation(r, "student updated", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteStudent handles DELETE /api/v1/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	if err := s.deps.Roster.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logMutation(r, "student deleted", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// handleGetStats handles GET /api/v1/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Roster.Stats())
}

// handleGetNotifications handles GET /api/v1/notifications
func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.Feed == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Feed.Recent())
}

// logMutation records which account performed a roster mutation.
func (s *Server) logMutation(r *http.Request, action, studentID string) {
	fields := []logger.Field{logger.StudentID(studentID)}
	if identity := getIdentity(r.Context()); identity != nil {
		fields = append(fields, logger.AccountID(identity.AccountID))
	}
	s.logger.Info(action, fields...)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain errors to HTTP responses. Validation and
// duplicate failures carry field-scoped messages; store failures surface
// the diagnostic unmodified.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		writeJSONErrorWithFields(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", shared.FieldErrors(err))

	case errors.Is(err, shared.ErrDuplicate):
		writeJSONErrorWithFields(w, http.StatusConflict, "duplicate_record", "A student with this name or phone number already exists", shared.FieldErrors(err))

	case errors.Is(err, shared.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, shared.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, "already_exists", "An account with this email already exists")

	case errors.Is(err, shared.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")

	case errors.Is(err, shared.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")

	case errors.Is(err, shared.ErrRemote):
		writeJSONError(w, http.StatusBadGateway, "store_error", err.Error())

	default:
		s.logger.Error("unhandled error", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeBody decodes the JSON request body into dst, writing a 400 on
// failure. Returns false when the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return false
	}
	return true
}
