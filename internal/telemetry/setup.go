package telemetry

import (
	"context"
	"log/slog"
)

// Setup returns OTLP metrics when enabled and a NoOp otherwise. Exporter
// failures degrade to NoOp.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		logger.DebugContext(ctx, "telemetry disabled")
		return NoOp{}
	}

	m, err := New(ctx, cfg)
	if err != nil {
		logger.WarnContext(ctx, "telemetry unavailable, continuing without metrics",
			"endpoint", cfg.Endpoint,
			"error", err,
		)
		return NoOp{}
	}

	logger.InfoContext(ctx, "telemetry enabled", "endpoint", cfg.Endpoint, "insecure", cfg.Insecure)
	return m
}
