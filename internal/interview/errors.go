package interview

import (
	"errors"
	"fmt"
)

// Error codes shared by the HTTP and MCP surfaces
const (
	CodeMissingField     = "missing_field"
	CodeUnknownSession   = "unknown_session"
	CodeInvalidStage     = "invalid_stage"
	CodeGenerationFailed = "generation_failed"
)

// ErrEmptyGeneration is wrapped by GenerationError when the model returned
// no usable text
var ErrEmptyGeneration = errors.New("text generation returned empty text")

// ValidationError represents a required input that is absent or empty
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing field: %s", e.Field)
	}
	return fmt.Sprintf("missing field %s: %s", e.Field, e.Reason)
}

// SessionNotFoundError represents a lookup of an id that is not live,
// including sessions that already ended
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("unknown session: %q", e.SessionID)
}

// InvalidStageError represents a stage outside the interview script
type InvalidStageError struct {
	Stage Stage
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid stage: %q", string(e.Stage))
}

// GenerationError represents a failed call to the text generator
type GenerationError struct {
	Operation string
	SessionID string
	Err       error
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("generation failed during %s", e.Operation)
	if e.SessionID != "" {
		msg += fmt.Sprintf(" (session: %s)", e.SessionID)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error returned by the Manager to its stable code.
// Unrecognised errors map to the empty string.
func ErrorCode(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *SessionNotFoundError
		stageErr      *InvalidStageError
		genErr        *GenerationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return CodeMissingField
	case errors.As(err, &notFoundErr):
		return CodeUnknownSession
	case errors.As(err, &stageErr):
		return CodeInvalidStage
	case errors.As(err, &genErr):
		return CodeGenerationFailed
	default:
		return ""
	}
}
