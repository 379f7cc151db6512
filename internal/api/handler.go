// Package api provides the HTTP handlers for the MathTrail JSON API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// User-facing failure strings. Provider and database detail never leaks to
// the client; every failure collapses to one of these.
const (
	msgGenerateFailed = "Something went wrong generating the problem. Please try again."
	msgSubmitFailed   = "Something went wrong submitting your answer. Please try again."
)

// Handler holds the handler dependencies.
type Handler struct {
	svc    ProblemService
	logger *slog.Logger
}

// NewHandler creates a Handler. logger may be nil.
func NewHandler(svc ProblemService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON request body into v. A false return means the
// response has already been written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
