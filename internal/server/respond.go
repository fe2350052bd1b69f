package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kfreiman/careercoach/internal/career"
	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/resume"
)

// Error codes beyond the interview ones
const (
	CodeInvalidJSON       = "invalid_json"
	CodeInvalidResume     = "invalid_resume"
	CodeUnsupportedResume = "unsupported_resume"
	CodeInternal          = "internal"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// invalidJSONError wraps body decoding failures
type invalidJSONError struct {
	err error
}

func (e *invalidJSONError) Error() string {
	return "invalid JSON body: " + e.err.Error()
}

func (e *invalidJSONError) Unwrap() error {
	return e.err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &invalidJSONError{err: err}
	}
	return nil
}

// classify maps an error to its HTTP status and stable code
func classify(err error) (int, string) {
	if code := interview.ErrorCode(err); code != "" {
		switch code {
		case interview.CodeMissingField:
			return http.StatusBadRequest, code
		case interview.CodeUnknownSession:
			return http.StatusNotFound, code
		case interview.CodeGenerationFailed:
			return http.StatusBadGateway, code
		default:
			return http.StatusInternalServerError, code
		}
	}

	var (
		jsonErr        *invalidJSONError
		careerErr      *career.ValidationError
		unsupportedErr *resume.UnsupportedTypeError
		tooLargeErr    *resume.TooLargeError
		extractErr     *resume.ExtractionError
		emptyErr       *resume.EmptyResumeError
	)
	switch {
	case errors.As(err, &jsonErr):
		return http.StatusBadRequest, CodeInvalidJSON
	case errors.As(err, &careerErr):
		return http.StatusBadRequest, interview.CodeMissingField
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType, CodeUnsupportedResume
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge, CodeInvalidResume
	case errors.As(err, &extractErr), errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, CodeInvalidResume
	}
	return http.StatusInternalServerError, CodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := classify(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"code", code,
		"error", err,
	)

	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
