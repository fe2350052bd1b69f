package server

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/resume"
)

// InterviewService runs interview sessions
type InterviewService interface {
	StartSession(ctx context.Context, jobRole, resumeText string) (interview.StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (interview.AnswerResult, error)
	ClarifyLastQuestion(ctx context.Context, sessionID string) (string, error)
	FinishSession(ctx context.Context, sessionID string) (string, error)
	Snapshot(sessionID string) (interview.Session, error)
}

// InterviewHandler serves the /interview routes
type InterviewHandler struct {
	svc    InterviewService
	logger *slog.Logger
}

// NewInterviewHandler creates an InterviewHandler
func NewInterviewHandler(svc InterviewService, logger *slog.Logger) *InterviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterviewHandler{svc: svc, logger: logger}
}

// RegisterInterviewRoutes mounts the interview endpoints
func RegisterInterviewRoutes(r chi.Router, h *InterviewHandler) {
	r.Route("/interview", func(r chi.Router) {
		r.Post("/start", h.Start)
		r.Post("/answer", h.Answer)
		r.Post("/clarify", h.Clarify)
		r.Post("/finish", h.Finish)
		r.Get("/{sessionID}", h.Show)
	})
}

type startRequest struct {
	JobRole    string `json:"jobRole"`
	ResumeText string `json:"resumeText"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

type answerResponse struct {
	Question      string          `json:"question,omitempty"`
	Stage         interview.Stage `json:"stage,omitempty"`
	QuestionCount int             `json:"questionCount,omitempty"`
	Feedback      string          `json:"feedback,omitempty"`
	Done          bool            `json:"done"`
}

// Start accepts JSON or a multipart form carrying a resume file
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseStart(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.StartSession(r.Context(), req.JobRole, req.ResumeText)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *InterviewHandler) parseStart(w http.ResponseWriter, r *http.Request) (startRequest, error) {
	var req startRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		err := decodeJSON(w, r, &req)
		return req, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxSize+maxBodyBytes)
	if err := r.ParseMultipartForm(resume.MaxSize); err != nil {
		return req, &invalidJSONError{err: err}
	}
	req.JobRole = r.FormValue("jobRole")
	req.ResumeText = r.FormValue("resumeText")

	file, header, err := r.FormFile("resumeFile")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return req, &invalidJSONError{err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, &invalidJSONError{err: err}
	}
	text, err := resume.Extract(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return req, err
	}

	h.logger.DebugContext(r.Context(), "resume extracted from upload",
		"filename", header.Filename,
		"size", len(data),
		"text_length", len(text),
	)
	if strings.TrimSpace(req.ResumeText) != "" {
		text = req.ResumeText + "\n\n" + text
	}
	req.ResumeText = text
	return req, nil
}

// Answer records an answer and returns the next question or the feedback
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.SubmitAnswer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if res.Done {
		writeJSON(w, http.StatusOK, answerResponse{Feedback: res.Feedback, Done: true})
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{
		Question:      res.Question,
		Stage:         res.Stage,
		QuestionCount: res.QuestionCount,
	})
}

// Clarify rephrases the current question
func (h *InterviewHandler) Clarify(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	question, err := h.svc.ClarifyLastQuestion(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"question": question})
}

// Finish ends the interview early
func (h *InterviewHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	feedback, err := h.svc.FinishSession(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

// Show returns a snapshot of a live session
func (h *InterviewHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Snapshot(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
