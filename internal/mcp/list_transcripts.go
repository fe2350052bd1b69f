package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/careercoach/internal/storage"
)

// TranscriptStore reads archived transcripts
type TranscriptStore interface {
	List(ctx context.Context) ([]storage.Summary, error)
	Read(ctx context.Context, id string) (storage.Record, error)
}

// ListTranscriptsTool handles listing archived transcripts
type ListTranscriptsTool struct {
	store  TranscriptStore
	logger *slog.Logger
}

// NewListTranscriptsTool creates a new list transcripts tool
func NewListTranscriptsTool(store TranscriptStore) *ListTranscriptsTool {
	return &ListTranscriptsTool{
		store:  store,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger
func (t *ListTranscriptsTool) WithLogger(logger *slog.Logger) *ListTranscriptsTool {
	t.logger = logger
	return t
}

// Call implements the MCP tool interface
func (t *ListTranscriptsTool) Call(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return textResult("Transcript archive is disabled."), nil
	}

	summaries, err := t.store.List(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to list transcripts", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error listing transcripts: %v", err)},
			},
		}, nil
	}

	if len(summaries) == 0 {
		return textResult("No archived interviews found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Archived Interviews (%d):\n\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(&b, "- %s (%s, %s, %d questions, ended %s)\n",
			s.URI, s.JobRole, s.Outcome, s.QuestionCount, s.EndedAt.Format(time.RFC3339))
	}
	return textResult(b.String()), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
