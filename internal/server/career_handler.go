package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kfreiman/careercoach/internal/career"
)

// CareerAdvisor answers career questions
type CareerAdvisor interface {
	Advise(ctx context.Context, req career.Request) (string, error)
	Suggest(ctx context.Context, role string) (career.Suggestion, error)
	Info(ctx context.Context, input string) (map[string]any, error)
}

// CareerHandler serves the career advice routes
type CareerHandler struct {
	advisor CareerAdvisor
	logger  *slog.Logger
}

// NewCareerHandler creates a CareerHandler
func NewCareerHandler(advisor CareerAdvisor, logger *slog.Logger) *CareerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CareerHandler{advisor: advisor, logger: logger}
}

// RegisterCareerRoutes mounts the career endpoints
func RegisterCareerRoutes(r chi.Router, h *CareerHandler) {
	r.Post("/api/career", h.Advise)
	r.Post("/suggest", h.Suggest)
	r.Post("/career-ai", h.Info)
}

// Advise answers skills-to-career and career-to-skills questions
func (h *CareerHandler) Advise(w http.ResponseWriter, r *http.Request) {
	var req career.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.advisor.Advise(r.Context(), req)
	if err != nil {
		writeCareerError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

// Suggest returns resume material for a role
func (h *CareerHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	s, err := h.advisor.Suggest(r.Context(), req.Role)
	if err != nil {
		writeCareerError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Info returns structured career info, or an empty object
func (h *CareerHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	info, err := h.advisor.Info(r.Context(), req.Input)
	if err != nil {
		writeCareerError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeCareerError reports failures that are not input errors as upstream
// generation failures
func writeCareerError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if status, _ := classify(err); status != http.StatusInternalServerError {
		writeError(w, r, logger, err)
		return
	}
	logger.ErrorContext(r.Context(), "career request failed",
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "generation_failed"})
}
