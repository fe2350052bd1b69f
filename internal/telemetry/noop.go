package telemetry

import (
	"context"
	"time"

	"github.com/kfreiman/careercoach/internal/interview"
)

// NoOp is a Recorder that does nothing
type NoOp struct{}

func (NoOp) SessionStarted(context.Context, string) {}

func (NoOp) SessionEnded(context.Context, interview.Outcome, int, time.Duration) {}

func (NoOp) GenerationCompleted(context.Context, string, time.Duration, error) {}

func (NoOp) Close(context.Context) error { return nil }
