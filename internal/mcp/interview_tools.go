package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/careercoach/internal/interview"
)

// Interviewer runs interview sessions
type Interviewer interface {
	StartSession(ctx context.Context, jobRole, resumeText string) (interview.StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (interview.AnswerResult, error)
	ClarifyLastQuestion(ctx context.Context, sessionID string) (string, error)
	FinishSession(ctx context.Context, sessionID string) (string, error)
}

// InterviewTools implements the interview tool handlers
type InterviewTools struct {
	interviewer Interviewer
	logger      *slog.Logger
}

// NewInterviewTools creates the interview tool handlers
func NewInterviewTools(interviewer Interviewer) *InterviewTools {
	return &InterviewTools{
		interviewer: interviewer,
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger
func (t *InterviewTools) WithLogger(logger *slog.Logger) *InterviewTools {
	t.logger = logger
	return t
}

// Start handles start_interview
func (t *InterviewTools) Start(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		JobRole    string `json:"job_role"`
		ResumeText string `json:"resume_text"`
	}
	if err := json.Unmarshal(request.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	res, err := t.interviewer.StartSession(ctx, args.JobRole, args.ResumeText)
	if err != nil {
		return t.failure(ctx, "start_interview", "", err), nil
	}

	return jsonResult(map[string]any{
		"session_id":     res.SessionID,
		"stage":          res.Stage,
		"question_count": res.QuestionCount,
		"question":       res.Question,
	})
}

// Answer handles submit_answer
func (t *InterviewTools) Answer(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
	}
	if err := json.Unmarshal(request.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	res, err := t.interviewer.SubmitAnswer(ctx, args.SessionID, args.Answer)
	if err != nil {
		return t.failure(ctx, "submit_answer", args.SessionID, err), nil
	}

	if res.Done {
		return jsonResult(map[string]any{
			"done":     true,
			"feedback": res.Feedback,
		})
	}
	return jsonResult(map[string]any{
		"done":           false,
		"stage":          res.Stage,
		"question_count": res.QuestionCount,
		"question":       res.Question,
	})
}

// Clarify handles clarify_question
func (t *InterviewTools) Clarify(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(request.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	question, err := t.interviewer.ClarifyLastQuestion(ctx, args.SessionID)
	if err != nil {
		return t.failure(ctx, "clarify_question", args.SessionID, err), nil
	}
	return jsonResult(map[string]any{"question": question})
}

// Finish handles finish_interview
func (t *InterviewTools) Finish(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(request.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("invalid input format: %w", err)
	}

	feedback, err := t.interviewer.FinishSession(ctx, args.SessionID)
	if err != nil {
		return t.failure(ctx, "finish_interview", args.SessionID, err), nil
	}
	return jsonResult(map[string]any{"feedback": feedback})
}

// failure reports an interview error inside the tool result so the model
// can see it and correct the call
func (t *InterviewTools) failure(ctx context.Context, tool, sessionID string, err error) *mcp.CallToolResult {
	code := interview.ErrorCode(err)
	level := slog.LevelWarn
	var genErr *interview.GenerationError
	if errors.As(err, &genErr) {
		level = slog.LevelError
	}
	t.logger.Log(ctx, level, "interview tool failed",
		"tool", tool,
		"session_id", sessionID,
		"code", code,
		"error", err,
	)

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error (%s): %v", code, err)},
		},
	}
}

func jsonResult(v map[string]any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}
