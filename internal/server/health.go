package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const serviceName = "careercoach"

// HealthResponse represents the JSON response for health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// ReadinessChecker reports whether a dependency can serve requests
type ReadinessChecker interface {
	IsAccessible() bool
}

// HealthHandler serves /health, /health/live and /health/ready
type HealthHandler struct {
	version  string
	archive  ReadinessChecker // nil when archiving is disabled
	sessions func() int
	logger   *slog.Logger
}

func (h *HealthHandler) base(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
		Version:   h.version,
	}
}

// Health reports that the server is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := h.base("OK")
	resp.Message = "Server is running"
	writeJSON(w, http.StatusOK, resp)
}

// Liveness always returns 200 OK; it has no external dependencies
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "liveness check requested")
	writeJSON(w, http.StatusOK, h.base("healthy"))
}

// Readiness returns 503 when the transcript archive is unreachable
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := h.base("healthy")
	resp.Checks = map[string]string{}
	resp.Details = map[string]string{}

	if h.sessions != nil {
		resp.Details["active_sessions"] = strconv.Itoa(h.sessions())
	}

	switch {
	case h.archive == nil:
		resp.Checks["archive"] = "disabled"
	case h.archive.IsAccessible():
		resp.Checks["archive"] = "accessible"
	default:
		resp.Status = "unhealthy"
		resp.Checks["archive"] = "inaccessible"
		h.logger.ErrorContext(ctx, "readiness check failed", "status", "unhealthy", "archive", "inaccessible")
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	h.logger.DebugContext(ctx, "readiness check completed", "status", "healthy")
	writeJSON(w, http.StatusOK, resp)
}
