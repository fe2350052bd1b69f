package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator turns a prompt into text within a token budget
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Archiver receives the transcript of every interview that ended with
// feedback
type Archiver interface {
	Archive(ctx context.Context, t Transcript) error
}

// Recorder observes session lifecycle and generation calls
type Recorder interface {
	SessionStarted(ctx context.Context, jobRole string)
	SessionEnded(ctx context.Context, outcome Outcome, questionCount int, duration time.Duration)
	GenerationCompleted(ctx context.Context, operation string, duration time.Duration, err error)
}

// Budgets holds the token budget of each kind of generation call
type Budgets struct {
	Question      int
	Clarify       int
	Feedback      int
	FinalFeedback int
}

// DefaultBudgets are used for any budget left at zero
var DefaultBudgets = Budgets{
	Question:      300,
	Clarify:       300,
	Feedback:      600,
	FinalFeedback: 1000,
}

// Generation operation names, used in errors, logs and metrics
const (
	OpStart    = "start"
	OpQuestion = "question"
	OpClarify  = "clarify"
	OpFeedback = "feedback"
	OpFinish   = "finish"
)

// ManagerConfig holds configuration for the session manager
type ManagerConfig struct {
	Generator Generator
	Store     *Store        // Optional: defaults to an empty store
	Budgets   Budgets       // Optional: zero fields take DefaultBudgets
	Timeout   time.Duration // Optional: bound on each generation call, 0 disables
	Logger    *slog.Logger  // Optional: defaults to slog.Default()
	Archiver  Archiver      // Optional
	Recorder  Recorder      // Optional
	Now       func() time.Time
	NewID     func() string
}

// Manager owns the live interview sessions and advances them through the
// stage script
type Manager struct {
	generator Generator
	store     *Store
	budgets   Budgets
	timeout   time.Duration
	logger    *slog.Logger
	archiver  Archiver
	recorder  Recorder
	now       func() time.Time
	newID     func() string
}

// StartResult is returned by StartSession
type StartResult struct {
	SessionID     string `json:"sessionId"`
	Question      string `json:"question"`
	Stage         Stage  `json:"stage"`
	QuestionCount int    `json:"questionCount"`
}

// AnswerResult is returned by SubmitAnswer. When Done is set the interview
// is over and only Feedback is meaningful.
type AnswerResult struct {
	Question      string
	Stage         Stage
	QuestionCount int
	Feedback      string
	Done          bool
}

// NewManager creates a session manager
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Generator == nil {
		return nil, errors.New("interview manager requires a generator")
	}
	if config.Store == nil {
		config.Store = NewStore()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Recorder == nil {
		config.Recorder = noopRecorder{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = func() string { return uuid.New().String() }
	}
	b := config.Budgets
	if b.Question <= 0 {
		b.Question = DefaultBudgets.Question
	}
	if b.Clarify <= 0 {
		b.Clarify = DefaultBudgets.Clarify
	}
	if b.Feedback <= 0 {
		b.Feedback = DefaultBudgets.Feedback
	}
	if b.FinalFeedback <= 0 {
		b.FinalFeedback = DefaultBudgets.FinalFeedback
	}

	return &Manager{
		generator: config.Generator,
		store:     config.Store,
		budgets:   b,
		timeout:   config.Timeout,
		logger:    config.Logger,
		archiver:  config.Archiver,
		recorder:  config.Recorder,
		now:       config.Now,
		newID:     config.NewID,
	}, nil
}

// ActiveSessions returns the number of live sessions
func (m *Manager) ActiveSessions() int {
	return m.store.Len()
}

// StartSession creates a session at the basic stage and returns its first
// question
func (m *Manager) StartSession(ctx context.Context, jobRole, resumeText string) (StartResult, error) {
	jobRole = strings.TrimSpace(jobRole)
	resumeText = strings.TrimSpace(resumeText)
	if jobRole == "" {
		return StartResult{}, &ValidationError{Field: "jobRole"}
	}
	if resumeText == "" {
		return StartResult{}, &ValidationError{Field: "resumeText"}
	}

	prompt, err := QuestionPrompt(StageBasic, jobRole, resumeText)
	if err != nil {
		return StartResult{}, err
	}

	id := m.newID()
	question, err := m.generate(ctx, OpStart, id, prompt, m.budgets.Question)
	if err != nil {
		return StartResult{}, err
	}

	now := m.now()
	m.store.insert(Session{
		ID:            id,
		JobRole:       jobRole,
		ResumeText:    resumeText,
		Stage:         StageBasic,
		History:       []Exchange{},
		QuestionCount: 1,
		LastQuestion:  question,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	m.recorder.SessionStarted(ctx, jobRole)
	m.logger.InfoContext(ctx, "interview session started",
		"session_id", id,
		"job_role", jobRole,
		"resume_length", len(resumeText),
	)

	return StartResult{
		SessionID:     id,
		Question:      question,
		Stage:         StageBasic,
		QuestionCount: 1,
	}, nil
}

// SubmitAnswer records an answer to the last question. It either advances
// to the next stage and returns its question, or, when the answered stage
// was the last one, returns feedback and ends the session.
func (m *Manager) SubmitAnswer(ctx context.Context, sessionID, answer string) (AnswerResult, error) {
	e, err := m.store.acquire(sessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	defer e.release()

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return AnswerResult{}, &ValidationError{Field: "answer"}
	}

	sess := e.session
	history := append(sess.clone().History, Exchange{Question: sess.LastQuestion, Answer: answer})
	count := sess.QuestionCount + 1

	next, err := NextStage(sess.Stage)
	if err != nil {
		m.logger.ErrorContext(ctx, "session holds a stage outside the script",
			"error", err,
			"session_id", sessionID,
		)
		return AnswerResult{}, err
	}

	if next == StageComplete {
		feedback, err := m.generate(ctx, OpFeedback, sessionID, FeedbackPrompt(sess.JobRole, history), m.budgets.Feedback)
		if err != nil {
			return AnswerResult{}, err
		}
		sess.History = history
		sess.QuestionCount = count
		m.end(ctx, e, sess, feedback, OutcomeCompleted)
		return AnswerResult{
			Stage:         sess.Stage,
			QuestionCount: count,
			Feedback:      feedback,
			Done:          true,
		}, nil
	}

	prompt, err := QuestionPrompt(next, sess.JobRole, sess.ResumeText)
	if err != nil {
		return AnswerResult{}, err
	}
	question, err := m.generate(ctx, OpQuestion, sessionID, prompt, m.budgets.Question)
	if err != nil {
		return AnswerResult{}, err
	}

	e.session.History = history
	e.session.QuestionCount = count
	e.session.Stage = next
	e.session.LastQuestion = question
	e.session.UpdatedAt = m.now()

	m.logger.DebugContext(ctx, "interview advanced",
		"session_id", sessionID,
		"stage", next,
		"question_count", count,
	)

	return AnswerResult{
		Question:      question,
		Stage:         next,
		QuestionCount: count,
	}, nil
}

// ClarifyLastQuestion replaces the last question with a rephrasing of it.
// Stage, history and question count are left untouched.
func (m *Manager) ClarifyLastQuestion(ctx context.Context, sessionID string) (string, error) {
	e, err := m.store.acquire(sessionID)
	if err != nil {
		return "", err
	}
	defer e.release()

	if e.session.LastQuestion == "" {
		return "", &SessionNotFoundError{SessionID: sessionID}
	}

	question, err := m.generate(ctx, OpClarify, sessionID, ClarifyPrompt(e.session.LastQuestion), m.budgets.Clarify)
	if err != nil {
		return "", err
	}

	e.session.LastQuestion = question
	e.session.UpdatedAt = m.now()
	return question, nil
}

// FinishSession ends the interview at whatever stage it reached and returns
// comprehensive feedback on the transcript so far
func (m *Manager) FinishSession(ctx context.Context, sessionID string) (string, error) {
	e, err := m.store.acquire(sessionID)
	if err != nil {
		return "", err
	}
	defer e.release()

	sess := e.session.clone()
	prompt := FinalFeedbackPrompt(sess.JobRole, sess.Stage, sess.History)
	feedback, err := m.generate(ctx, OpFinish, sessionID, prompt, m.budgets.FinalFeedback)
	if err != nil {
		return "", err
	}

	m.end(ctx, e, sess, feedback, OutcomeFinished)
	return feedback, nil
}

// Snapshot returns a copy of a live session
func (m *Manager) Snapshot(sessionID string) (Session, error) {
	e, err := m.store.acquire(sessionID)
	if err != nil {
		return Session{}, err
	}
	defer e.release()
	return e.session.clone(), nil
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were removed
func (m *Manager) Sweep(ctx context.Context, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	now := m.now()
	removed := m.store.removeIdle(now.Add(-ttl))
	for _, sess := range removed {
		m.recorder.SessionEnded(ctx, OutcomeExpired, sess.QuestionCount, now.Sub(sess.CreatedAt))
	}
	if len(removed) > 0 {
		m.logger.InfoContext(ctx, "idle interview sessions removed",
			"removed", len(removed),
			"ttl", ttl,
		)
	}
	return len(removed)
}

// end removes a session whose lock is held and hands its transcript to the
// archiver. Archive failures are logged only.
func (m *Manager) end(ctx context.Context, e *entry, sess Session, feedback string, outcome Outcome) {
	m.store.remove(e)
	now := m.now()

	m.recorder.SessionEnded(ctx, outcome, sess.QuestionCount, now.Sub(sess.CreatedAt))
	m.logger.InfoContext(ctx, "interview session ended",
		"session_id", sess.ID,
		"outcome", outcome,
		"stage", sess.Stage,
		"answers", len(sess.History),
	)

	if m.archiver == nil {
		return
	}
	t := Transcript{
		SessionID:     sess.ID,
		JobRole:       sess.JobRole,
		ResumeText:    sess.ResumeText,
		Stage:         sess.Stage,
		QuestionCount: sess.QuestionCount,
		History:       sess.History,
		Feedback:      feedback,
		Outcome:       outcome,
		StartedAt:     sess.CreatedAt,
		EndedAt:       now,
	}
	if err := m.archiver.Archive(ctx, t); err != nil {
		m.logger.WarnContext(ctx, "failed to archive interview transcript",
			"error", err,
			"session_id", sess.ID,
		)
	}
}

// generate calls the generator under the configured timeout and converts
// any failure into a GenerationError
func (m *Manager) generate(ctx context.Context, op, sessionID, prompt string, budget int) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := m.generator.Generate(ctx, prompt, budget)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyGeneration
	}
	m.recorder.GenerationCompleted(ctx, op, time.Since(start), err)

	if err != nil {
		m.logger.ErrorContext(ctx, "text generation failed",
			"error", err,
			"operation", op,
			"session_id", sessionID,
			"max_tokens", budget,
		)
		return "", &GenerationError{
			Operation: op,
			SessionID: sessionID,
			Err:       err,
		}
	}
	return text, nil
}

type noopRecorder struct{}

func (noopRecorder) SessionStarted(context.Context, string) {}

func (noopRecorder) SessionEnded(context.Context, Outcome, int, time.Duration) {}

func (noopRecorder) GenerationCompleted(context.Context, string, time.Duration, error) {}
