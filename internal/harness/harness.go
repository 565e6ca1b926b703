package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/scheduler"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
	"github.com/Nareshtt/motion-dom-canvas/internal/testutil"
)

// Trace event kinds.
const (
	EventMount  = "mount"
	EventSeek   = "seek"
	EventApply  = "apply"
	EventFinish = "finish"
	EventCancel = "cancel"
)

// TraceEvent is one lifecycle event or applied value.
type TraceEvent struct {
	Seq int64 `json:"seq"`
	// Frame is the delivered frame, counted from 0; -1 during mount and seek.
	Frame int64 `json:"frame"`
	// Clock is the host clock at the frame, in seconds since mount.
	Clock float64 `json:"clock"`
	Kind  string  `json:"kind"`

	// Apply events.
	Target   string `json:"target,omitempty"`
	Property string `json:"property,omitempty"`
	Value    string `json:"value,omitempty"`

	// Elapsed is the scheduler's scene time for lifecycle events.
	Elapsed float64 `json:"elapsed,omitempty"`
	// Finished is set on seek events that completed the flow.
	Finished bool `json:"finished,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// DoneAt is the frame the flow finished on; nil if it never did.
	DoneAt *int64 `json:"done_at,omitempty"`

	// Elapsed is the scene time when the run ended.
	Elapsed float64 `json:"elapsed"`

	// Frames is the number of frames delivered.
	Frames int `json:"frames"`

	Trace    []TraceEvent                 `json:"trace"`
	Final    map[string]map[string]string `json:"final"`
	Estimate analyzer.Estimate            `json:"estimate"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Applied returns the apply events, optionally filtered by target and
// property (empty matches any).
func (r *Result) Applied(target, property string) []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Kind != EventApply {
			continue
		}
		if target != "" && e.Target != target {
			continue
		}
		if property != "" && e.Property != property {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Option configures Run.
type Option func(*runner)

// WithLogger sends stage diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.logger = l
		}
	}
}

type runner struct {
	logger *slog.Logger
}

// Run executes a scenario against a fresh surface and scheduler and
// evaluates its assertions. The error result reports harness failures;
// assertion failures are recorded on the Result.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Result, error) {
	rn := &runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(rn)
	}

	scr := sc.Script()
	surface := sink.NewSurface(sc.Elements...)
	tr := &tracer{clock: testutil.NewDeterministicClock(), frame: -1}
	stage := motion.NewStage(surface, sink.Multi{surface, tr}, motion.WithLogger(rn.logger))

	frames := scheduler.NewManual()
	sched := scheduler.New(frames, scheduler.WithObserver(tr))
	defer sched.Unmount()

	res := NewResult(sc.Name)
	res.Estimate = analyzer.Analyze(scr.Node())

	sched.Mount(ctx, scheduler.Mount{
		Scene:   sc.Name,
		Flow:    scr.Scene().Bind(stage),
		Playing: true,
		Seek:    sc.Seek,
		Reset:   surface.Reset,
	})

	if sched.State() == scheduler.StateDone {
		doneAt := int64(-1)
		res.DoneAt = &doneAt
	} else {
		// Baseline frame; the scheduler steps from the next one.
		if err := frames.Tick(ctx, 0); err != nil {
			return nil, fmt.Errorf("baseline frame: %w", err)
		}
		clock := 0.0
		for i, dt := range sc.Frames.Steps() {
			clock += dt
			tr.mark(int64(i), clock)
			if err := frames.Tick(ctx, dt); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			res.Frames = i + 1
			if sched.State() == scheduler.StateDone {
				doneAt := int64(i)
				res.DoneAt = &doneAt
				break
			}
		}
	}

	res.Elapsed = sched.Elapsed()
	sched.Unmount()
	res.Trace = tr.events()
	res.Final = surface.Snapshot()

	for _, msg := range EvaluateAssertions(res, sc.Assertions) {
		res.AddError(msg)
	}
	return res, nil
}

// tracer records applied values and scheduler lifecycle events in one
// ordered trace.
type tracer struct {
	clock *testutil.DeterministicClock

	mu    sync.Mutex
	frame int64
	time  float64
	trace []TraceEvent
}

func (t *tracer) mark(frame int64, clock float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame, t.time = frame, clock
}

func (t *tracer) add(e TraceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.Seq = t.clock.Next()
	e.Frame, e.Clock = t.frame, t.time
	t.trace = append(t.trace, e)
}

func (t *tracer) events() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TraceEvent{}, t.trace...)
}

// Apply implements sink.Applier.
func (t *tracer) Apply(id string, p style.Property, value string) {
	t.add(TraceEvent{Kind: EventApply, Target: id, Property: string(p), Value: value})
}

// OnMount implements scheduler.Observer.
func (t *tracer) OnMount(_ context.Context, _ string, seek float64, _ bool) {
	t.add(TraceEvent{Kind: EventMount, Elapsed: seek})
}

// OnSeek implements scheduler.Observer.
func (t *tracer) OnSeek(_ context.Context, _ string, _, advanced float64, finished bool) {
	t.add(TraceEvent{Kind: EventSeek, Elapsed: advanced, Finished: finished})
}

// OnFinish implements scheduler.Observer.
func (t *tracer) OnFinish(_ context.Context, _ string, elapsed float64) {
	t.add(TraceEvent{Kind: EventFinish, Elapsed: elapsed})
}

// OnCancel implements scheduler.Observer.
func (t *tracer) OnCancel(_ context.Context, _ string, elapsed float64) {
	t.add(TraceEvent{Kind: EventCancel, Elapsed: elapsed})
}
