package sink

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Multi forwards every update to each applier in order.
type Multi []Applier

// Apply implements Applier.
func (m Multi) Apply(id string, p style.Property, value string) {
	for _, a := range m {
		a.Apply(id, p, value)
	}
}

// Logging writes every update to a logger at debug level.
type Logging struct {
	Logger *slog.Logger
}

// Apply implements Applier.
func (l Logging) Apply(id string, p style.Property, value string) {
	if l.Logger == nil {
		return
	}
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, "apply",
		slog.String("target", id),
		slog.String("property", string(p)),
		slog.String("value", value),
	)
}

// Record is one applied value stamped with the frame it happened in.
type Record struct {
	Frame    int64   `json:"frame"`
	Time     float64 `json:"time"`
	Scene    string  `json:"scene,omitempty"`
	Target   string  `json:"target"`
	Property string  `json:"property"`
	Value    string  `json:"value"`
}

// Recorder buffers applied values tagged with the current frame.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	frame   int64
	time    float64
	scene   string
	records []Record
}

// Mark sets the frame, time and scene stamped on subsequent records.
func (r *Recorder) Mark(scene string, frame int64, t float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scene, r.frame, r.time = scene, frame, t
}

// Apply implements Applier.
func (r *Recorder) Apply(id string, p style.Property, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{
		Frame:    r.frame,
		Time:     r.time,
		Scene:    r.scene,
		Target:   id,
		Property: string(p),
		Value:    value,
	})
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Drain returns the buffered records and empties the buffer.
func (r *Recorder) Drain() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.records
	r.records = nil
	return out
}
