// Package render steps a project's scenes offline at a fixed frame rate and
// records every value applied along the way.
//
// Each scene gets a fresh surface and stage. Its flow is advanced by 1/fps
// per frame until it finishes, then the next scene mounts on the following
// frame. The frame that finishes a scene belongs to that scene. Rendering
// stops after the last scene or when the frame budget for MaxDuration is
// spent, whichever comes first.
//
// While a scene's leading transition is in progress the incoming layer style
// is recorded against LayerTarget, so a consumer can composite the scene
// over the previous one.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// LayerTarget is the record target for the incoming scene layer.
const LayerTarget = "@layer"

// Layer properties recorded during transitions.
const (
	LayerTransform style.Property = "transform"
	LayerOpacity   style.Property = "opacity"
)

// Scene is one scene to render.
type Scene struct {
	Name  string
	Entry project.Entry
	// Transition is the scene's leading transition, usually taken from its
	// duration estimate.
	Transition *analyzer.Transition
}

// Options configures a render.
type Options struct {
	FPS int
	// MaxDuration caps the render length in seconds.
	MaxDuration float64
	Project     string

	// Store, when set, receives the run and its frames.
	Store *store.Store
	// Sink, when set, also receives every applied value.
	Sink sink.Applier

	Logger *slog.Logger

	// NewRunID defaults to UUIDv7.
	NewRunID func() (string, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

// SceneSpan is the frame range a scene occupied.
type SceneSpan struct {
	Scene      string `json:"scene"`
	FirstFrame int64  `json:"first_frame"`
	LastFrame  int64  `json:"last_frame"`
	Finished   bool   `json:"finished"`
}

// Result summarises a render.
type Result struct {
	RunID     string        `json:"run_id"`
	Frames    int64         `json:"frames"`
	Duration  float64       `json:"duration"`
	Truncated bool          `json:"truncated"`
	Scenes    []SceneSpan   `json:"scenes"`
	Records   []sink.Record `json:"records,omitempty"`
}

func (o *Options) defaults() error {
	if o.FPS <= 0 {
		return fmt.Errorf("render: fps must be positive, got %d", o.FPS)
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = project.DefaultConfig().MaxDuration
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.NewRunID == nil {
		o.NewRunID = func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

// Render steps scenes in order and returns what was applied.
func Render(ctx context.Context, scenes []Scene, opts Options) (*Result, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}

	runID, err := opts.NewRunID()
	if err != nil {
		return nil, fmt.Errorf("render: run id: %w", err)
	}
	if opts.Store != nil {
		run := store.Run{ID: runID, Project: opts.Project, FPS: opts.FPS, StartedAt: opts.Now()}
		if err := opts.Store.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}

	r := &renderer{
		opts:  opts,
		dt:    1 / float64(opts.FPS),
		limit: int64(math.Ceil(float64(opts.FPS) * opts.MaxDuration)),
		res:   &Result{RunID: runID, Scenes: []SceneSpan{}},
	}
	r.log = opts.Logger.With(slog.String("run_id", runID))
	r.log.Info("render started",
		slog.Int("fps", opts.FPS),
		slog.Int("scenes", len(scenes)),
		slog.Int64("frame_limit", r.limit))

	for i, sc := range scenes {
		if r.res.Truncated {
			break
		}
		if err := r.scene(ctx, i, sc); err != nil {
			return r.res, err
		}
	}

	r.res.Duration = float64(r.res.Frames) * r.dt
	if opts.Store != nil {
		if err := opts.Store.FinishRun(ctx, runID, r.res.Frames, r.res.Duration, r.res.Truncated); err != nil {
			return r.res, fmt.Errorf("render: %w", err)
		}
	}

	level := slog.LevelInfo
	if r.res.Truncated {
		level = slog.LevelWarn
	}
	r.log.Log(ctx, level, "render finished",
		slog.Int64("frames", r.res.Frames),
		slog.Float64("duration", r.res.Duration),
		slog.Bool("truncated", r.res.Truncated))
	return r.res, nil
}

type renderer struct {
	opts  Options
	dt    float64
	limit int64
	res   *Result
	log   *slog.Logger
}

func (r *renderer) scene(ctx context.Context, index int, sc Scene) error {
	if sc.Entry.Scene == nil {
		return fmt.Errorf("render: scene %q has no flow", sc.Name)
	}

	rec := &sink.Recorder{}
	surface := sink.NewSurface(sc.Entry.Elements...)
	out := sink.Multi{surface, rec}
	if r.opts.Sink != nil {
		out = append(out, r.opts.Sink)
	}
	stage := motion.NewStage(surface, out, motion.WithLogger(r.log))
	task := sc.Entry.Scene(stage)

	span := SceneSpan{Scene: sc.Name, FirstFrame: r.res.Frames}
	offset := 0.0
	for !span.Finished {
		if err := ctx.Err(); err != nil {
			motion.Stop(task)
			return err
		}
		if r.res.Frames >= r.limit {
			motion.Stop(task)
			r.res.Truncated = true
			r.log.Warn("frame limit reached", slog.String("scene", sc.Name), slog.Float64("max_duration", r.opts.MaxDuration))
			break
		}

		frame := r.res.Frames
		rec.Mark(sc.Name, frame, float64(frame+1)*r.dt)
		offset += r.dt
		span.Finished = task.Next(r.dt)
		if index > 0 && sc.Transition != nil {
			r.layer(rec, sc.Transition, offset)
		}
		span.LastFrame = frame
		r.res.Frames++
	}

	if r.res.Frames > span.FirstFrame {
		r.res.Scenes = append(r.res.Scenes, span)
	}

	records := rec.Drain()
	r.res.Records = append(r.res.Records, records...)
	if r.opts.Store != nil {
		if err := r.opts.Store.WriteFrames(ctx, r.res.RunID, records); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	r.log.Debug("scene rendered",
		slog.String("scene", sc.Name),
		slog.Int64("first_frame", span.FirstFrame),
		slog.Int64("last_frame", span.LastFrame),
		slog.Int("records", len(records)))
	return nil
}

// layer records the incoming layer style while offset is inside the
// transition. offset is the scene time after the frame's step, so the
// frame that reaches the transition's end records nothing.
func (r *renderer) layer(rec *sink.Recorder, tr *analyzer.Transition, offset float64) {
	if tr.Duration <= 0 || offset >= tr.Duration {
		return
	}
	ls := project.TransitionStyle(tr.Kind, offset/tr.Duration)
	rec.Apply(LayerTarget, LayerTransform, ls.Transform)
	rec.Apply(LayerTarget, LayerOpacity, style.FormatNumber(ls.Opacity))
}
