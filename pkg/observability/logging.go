package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/dtm/pkg/domain"
)

// LoggingHooks logs the start and end of every run at info level.
// Steps are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"run_id", e.RunID,
				"mode", e.Mode,
				"word", e.Word,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"step", e.Step,
				"from", e.From,
				"to", e.To,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "run_halt",
				"run_id", e.RunID,
				"mode", e.Mode,
				"steps", e.Steps,
				"state", e.State,
				"class", e.Class,
				"reason", e.Reason,
				"duration", e.Duration,
			)
		},
	}
}
