package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/careercoach/internal/storage"
)

// TranscriptResourceHandler serves interview:// resources
type TranscriptResourceHandler struct {
	store  TranscriptStore
	logger *slog.Logger
}

// NewTranscriptResourceHandler creates a new transcript resource handler
func NewTranscriptResourceHandler(store TranscriptStore, logger *slog.Logger) *TranscriptResourceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranscriptResourceHandler{store: store, logger: logger}
}

// ReadResource returns the markdown body of an archived transcript
func (h *TranscriptResourceHandler) ReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	id, err := storage.ParseURI(uri)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	rec, err := h.store.Read(ctx, id)
	if err != nil {
		h.logger.DebugContext(ctx, "transcript resource unavailable",
			"uri", uri,
			"error", err,
		)
		return nil, mcp.ResourceNotFoundError(uri)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     rec.Body,
		}},
	}, nil
}
