package scheduler

import (
	"context"
	"math"
	"sync"
	"time"
)

// DefaultFrameInterval is the Ticker interval when none is configured.
const DefaultFrameInterval = time.Second / 60

// FrameSource delivers host animation-frame timestamps. The channel is read
// by one frame loop at a time; a closed channel ends the loop.
type FrameSource interface {
	Frames(ctx context.Context) <-chan time.Time
}

// frameAcker is implemented by sources that wait for each frame to be fully
// processed before delivering the next.
type frameAcker interface {
	ack()
}

// Ticker is a wall-clock frame source.
type Ticker struct {
	Interval time.Duration
}

// Frames implements FrameSource. The channel closes when ctx ends.
func (t Ticker) Frames(ctx context.Context) <-chan time.Time {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	out := make(chan time.Time)
	go func() {
		defer close(out)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-tk.C:
				select {
				case out <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Manual is a frame source advanced explicitly by the caller. Tick returns
// only once the scheduler has finished with the frame, so callers observe
// every effect of a frame (including finish callbacks) when Tick returns.
//
// The first frame a loop receives only sets its baseline; send Tick(ctx, 0)
// before the first real step.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	frames chan time.Time
	acks   chan struct{}
}

// NewManual creates a manual source starting at the Unix epoch.
func NewManual() *Manual {
	return &Manual{
		now:    time.Unix(0, 0).UTC(),
		frames: make(chan time.Time),
		acks:   make(chan struct{}, 1),
	}
}

// Frames implements FrameSource.
func (m *Manual) Frames(context.Context) <-chan time.Time {
	return m.frames
}

// Now returns the timestamp of the last delivered frame.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Tick advances the clock by dt seconds and delivers one frame.
func (m *Manual) Tick(ctx context.Context, dt float64) error {
	m.mu.Lock()
	m.now = m.now.Add(time.Duration(math.Round(dt * float64(time.Second))))
	now := m.now
	m.mu.Unlock()

	select {
	case m.frames <- now:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-m.acks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manual) ack() {
	select {
	case m.acks <- struct{}{}:
	default:
	}
}
