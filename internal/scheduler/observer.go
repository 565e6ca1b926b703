package scheduler

import (
	"context"
	"log/slog"
)

// Observer receives scheduler lifecycle events. Implementations must be
// safe for concurrent use; finish and cancel events arrive on the frame
// loop goroutine.
type Observer interface {
	// OnMount is called once per Mount before the flow is built.
	OnMount(ctx context.Context, scene string, seek float64, playing bool)

	// OnSeek is called after the fast-forward replay, with the time actually
	// advanced.
	OnSeek(ctx context.Context, scene string, target, advanced float64, finished bool)

	// OnFinish is called when the root task reports done.
	OnFinish(ctx context.Context, scene string, elapsed float64)

	// OnCancel is called when an unfinished flow is torn down.
	OnCancel(ctx context.Context, scene string, elapsed float64)
}

// NoopObserver is an Observer that does nothing.
type NoopObserver struct{}

func (NoopObserver) OnMount(context.Context, string, float64, bool)         {}
func (NoopObserver) OnSeek(context.Context, string, float64, float64, bool) {}
func (NoopObserver) OnFinish(context.Context, string, float64)              {}
func (NoopObserver) OnCancel(context.Context, string, float64)              {}

// LoggingObserver writes lifecycle events to a slog.Logger.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver returns an observer using logger, or slog.Default when nil.
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnMount(ctx context.Context, scene string, seek float64, playing bool) {
	o.Logger.DebugContext(ctx, "scene_mount",
		slog.String("scene", scene),
		slog.Float64("seek", seek),
		slog.Bool("playing", playing),
	)
}

func (o *LoggingObserver) OnSeek(ctx context.Context, scene string, target, advanced float64, finished bool) {
	o.Logger.DebugContext(ctx, "scene_seek",
		slog.String("scene", scene),
		slog.Float64("target", target),
		slog.Float64("advanced", advanced),
		slog.Bool("finished", finished),
	)
}

func (o *LoggingObserver) OnFinish(ctx context.Context, scene string, elapsed float64) {
	o.Logger.InfoContext(ctx, "scene_finished",
		slog.String("scene", scene),
		slog.Float64("elapsed", elapsed),
	)
}

func (o *LoggingObserver) OnCancel(ctx context.Context, scene string, elapsed float64) {
	o.Logger.DebugContext(ctx, "scene_cancelled",
		slog.String("scene", scene),
		slog.Float64("elapsed", elapsed),
	)
}
