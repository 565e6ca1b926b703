// Package scheduler drives a flow's root task from host animation frames.
//
// A Scheduler owns at most one frame loop. Mounting a flow cancels and joins
// any previous loop, builds a fresh root task, fast-forwards it to the
// requested seek offset in fixed steps, then either starts the loop or stays
// paused.
//
// Thread-safety model:
//   - Mount, Unmount: safe from any goroutine, serialised internally
//   - State, Elapsed: safe from any goroutine
//   - the root task is only stepped by one goroutine at a time
//
// A finish callback may call Mount or Unmount on the same scheduler.
package scheduler

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
)

const (
	// SeekStep is the fixed step used to fast-forward to a seek offset.
	SeekStep = 1.0 / 60

	// MaxFrameStep caps the dt of a single frame so a stalled host does not
	// skip through a flow.
	MaxFrameStep = 0.1
)

// State is the scheduler lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateSeeking
	StateRunning
	StatePaused
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSeeking:
		return "seeking"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Mount describes one scene activation.
type Mount struct {
	// Scene labels observer events.
	Scene string
	// Flow builds the root task. It is called once per Mount.
	Flow motion.Flow
	// OnFinished is called at most once when the root task completes. It is
	// never called after the mount has been cancelled.
	OnFinished func()
	// Playing starts the frame loop after seeking.
	Playing bool
	// Seek is the scene-local offset to fast-forward to, in seconds.
	Seek float64
	// Reset runs before Flow so the replay starts from a clean surface.
	Reset func()
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSeekStep overrides SeekStep.
func WithSeekStep(step float64) Option {
	return func(s *Scheduler) {
		if step > 0 {
			s.seekStep = step
		}
	}
}

// Scheduler is the live runtime for one mounted flow.
type Scheduler struct {
	frames   FrameSource
	observer Observer
	seekStep float64

	mountMu sync.Mutex
	cur     *run // guarded by mountMu

	state   atomic.Int32
	elapsed atomic.Uint64
}

type run struct {
	ctx    context.Context
	scene  string
	root   motion.Task
	cancel context.CancelFunc
	done   chan struct{} // nil when no frame loop was started

	mu        sync.Mutex
	cancelled bool
	finished  bool
}

// New creates a scheduler reading frames from frames. A nil source means a
// 60 Hz Ticker.
func New(frames FrameSource, opts ...Option) *Scheduler {
	if frames == nil {
		frames = Ticker{}
	}
	s := &Scheduler{
		frames:   frames,
		observer: NoopObserver{},
		seekStep: SeekStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Elapsed returns the scene-local time of the mounted flow, including the
// seek offset.
func (s *Scheduler) Elapsed() float64 {
	return math.Float64frombits(s.elapsed.Load())
}

func (s *Scheduler) setElapsed(v float64) {
	s.elapsed.Store(math.Float64bits(v))
}

// Mount tears down any previous flow and activates m. When the seek replay
// already completes the flow, OnFinished runs before Mount returns.
func (s *Scheduler) Mount(ctx context.Context, m Mount) {
	if m.Flow == nil {
		panic("scheduler: Mount: nil flow")
	}

	s.mountMu.Lock()
	finished := s.mountLocked(ctx, m)
	s.mountMu.Unlock()

	if finished && m.OnFinished != nil {
		m.OnFinished()
	}
}

// Unmount cancels the mounted flow. No task step runs after Unmount returns.
func (s *Scheduler) Unmount() {
	s.mountMu.Lock()
	defer s.mountMu.Unlock()
	s.stopLocked()
	s.state.Store(int32(StateUninitialized))
}

func (s *Scheduler) mountLocked(ctx context.Context, m Mount) bool {
	s.stopLocked()
	s.setElapsed(0)
	s.observer.OnMount(ctx, m.Scene, m.Seek, m.Playing)

	if m.Reset != nil {
		m.Reset()
	}
	r := &run{ctx: ctx, scene: m.Scene, root: m.Flow()}
	s.cur = r

	if m.Seek > 0 {
		s.state.Store(int32(StateSeeking))
		advanced, done := Seek(r.root, m.Seek, s.seekStep)
		s.setElapsed(advanced)
		s.observer.OnSeek(ctx, m.Scene, m.Seek, advanced, done)
		if done {
			r.finished = true
			s.state.Store(int32(StateDone))
			s.observer.OnFinish(ctx, m.Scene, advanced)
			return true
		}
	}

	if !m.Playing {
		s.state.Store(int32(StatePaused))
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	s.state.Store(int32(StateRunning))
	go s.loop(loopCtx, r, m.OnFinished)
	return false
}

func (s *Scheduler) stopLocked() {
	r := s.cur
	if r == nil {
		return
	}
	s.cur = nil

	r.mu.Lock()
	r.cancelled = true
	finished := r.finished
	r.mu.Unlock()

	if r.done != nil {
		r.cancel()
		<-r.done
		return
	}
	if !finished {
		motion.Stop(r.root)
		s.state.Store(int32(StateCancelled))
		s.observer.OnCancel(r.ctx, r.scene, s.Elapsed())
	}
}

func (s *Scheduler) loop(ctx context.Context, r *run, onFinished func()) {
	defer r.cancel()
	frames := s.frames.Frames(ctx)
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			s.cancelRun(r)
			close(r.done)
			return

		case now, ok := <-frames:
			if !ok || ctx.Err() != nil {
				s.cancelRun(r)
				close(r.done)
				s.ack()
				return
			}
			if s.frame(r, &last, now) {
				close(r.done)
				if onFinished != nil {
					onFinished()
				}
				s.ack()
				return
			}
			s.ack()
		}
	}
}

// frame advances the root by the time since the previous frame and reports
// whether the flow finished. The first frame only sets the baseline.
func (s *Scheduler) frame(r *run, last *time.Time, now time.Time) bool {
	if last.IsZero() {
		*last = now
		return false
	}
	dt := min(max(now.Sub(*last).Seconds(), 0), MaxFrameStep)
	*last = now
	s.setElapsed(s.Elapsed() + dt)

	if !r.root.Next(dt) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled {
		return false
	}
	r.finished = true
	s.state.Store(int32(StateDone))
	s.observer.OnFinish(r.ctx, r.scene, s.Elapsed())
	return true
}

func (s *Scheduler) cancelRun(r *run) {
	r.mu.Lock()
	finished := r.finished
	r.mu.Unlock()
	if finished {
		return
	}
	motion.Stop(r.root)
	s.state.Store(int32(StateCancelled))
	s.observer.OnCancel(r.ctx, r.scene, s.Elapsed())
}

func (s *Scheduler) ack() {
	if a, ok := s.frames.(frameAcker); ok {
		a.ack()
	}
}

// Seek replays root forward by target seconds in steps of at most step,
// clipping the final step so the replay never overshoots. It returns the
// time advanced and whether root finished during the replay.
func Seek(root motion.Task, target, step float64) (float64, bool) {
	if step <= 0 {
		step = SeekStep
	}
	advanced := 0.0
	for remaining := target; remaining > 0; {
		dt := min(step, remaining)
		remaining -= dt
		advanced += dt
		if root.Next(dt) {
			return advanced, true
		}
	}
	return advanced, false
}
