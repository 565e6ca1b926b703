package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/interp"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/render"
	"github.com/Nareshtt/motion-dom-canvas/internal/scheduler"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// mqttConnectTimeout bounds the broker handshake before playback starts.
const mqttConnectTimeout = 5 * time.Second

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Database  string
	Scene     string  // scene to start from
	At        float64 // global timeline offset to start from
	FPS       int
	LogValues bool
	MQTT      string // broker url, overrides project.yaml

	// Frames overrides the wall-clock frame source (for testing).
	Frames scheduler.FrameSource
}

// PlayResult summarises a playback.
type PlayResult struct {
	Scenes    []string `json:"scenes"`
	Completed bool     `json:"completed"`
	Elapsed   float64  `json:"elapsed"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the project in real time",
		Long: `Play every scene in order against live sinks, mounting each scene when
the previous one finishes.

--at seeks into the timeline: the scene containing that time is mounted
and fast-forwarded to the local offset. Values go to the debug log with
--log-values and to an MQTT broker when configured.

Examples:
  motion play
  motion play --scene details
  motion play --at 12.5 --mqtt tcp://localhost:1883
  motion play --log-values -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from project.yaml)")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "scene to start from")
	cmd.Flags().Float64Var(&opts.At, "at", 0, "timeline offset to start from, in seconds")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frame rate (default from project.yaml)")
	cmd.Flags().BoolVar(&opts.LogValues, "log-values", false, "log every applied value at debug level")
	cmd.Flags().StringVar(&opts.MQTT, "mqtt", "", "MQTT broker url to publish applied values to")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	if opts.At < 0 {
		return NewExitError(ExitCommandError, "--at must be non-negative")
	}
	if opts.Scene != "" && opts.At > 0 {
		return NewExitError(ExitCommandError, "use either --scene or --at")
	}

	proj, err := loadProject(opts.Project)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return err
	}

	st, err := openStore(proj, opts.Database, logger)
	if err != nil {
		return err
	}
	ests, err := estimateScenes(cmd.Context(), proj, st, logger)
	closeStore(st, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to estimate scenes", err)
	}
	scenes, err := resolveScenes(proj, opts.Catalog, ests)
	if err != nil {
		_ = formatter.Error(ErrCodeNotCompiled, err.Error(), nil)
		return err
	}

	start, seek := 0, 0.0
	switch {
	case opts.Scene != "":
		sc, ok := proj.Find(opts.Scene)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("scene not found: %s", opts.Scene))
		}
		for i, s := range proj.Scenes {
			if s.Dir == sc.Dir {
				start = i
			}
		}
	case opts.At > 0:
		start, seek = timeline(proj, ests).Locate(opts.At)
	}
	if len(scenes) == 0 || start < 0 {
		return formatter.Render(PlayResult{Scenes: []string{}, Completed: true}, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, "No scenes to play.")
			return err
		})
	}

	out, closeSinks, err := playSinks(opts, proj.Config, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	frames := opts.Frames
	if frames == nil {
		fps := opts.FPS
		if fps <= 0 {
			fps = proj.Config.FPS
		}
		frames = scheduler.Ticker{Interval: time.Second / time.Duration(fps)}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPlayer(frames, scenes, out, logger)
	logger.Info("playback starting",
		slog.String("project", proj.Config.Name),
		slog.String("scene", scenes[start].Name),
		slog.Float64("seek", seek))
	result := p.play(ctx, start, seek)
	if ctx.Err() != nil && !result.Completed {
		logger.Info("playback interrupted")
	}

	return formatter.Render(result, func(w io.Writer) error {
		for _, name := range result.Scenes {
			fmt.Fprintf(w, "played %s\n", name)
		}
		if !result.Completed {
			fmt.Fprintln(w, "interrupted")
		}
		return nil
	})
}

// playSinks builds the live sinks selected by flags and project.yaml.
func playSinks(opts *PlayOptions, cfg project.Config, logger *slog.Logger) (sink.Applier, func(), error) {
	var out sink.Multi
	closers := []func(){}

	if opts.LogValues || cfg.Sinks.Log {
		out = append(out, sink.Logging{Logger: logger})
	}

	mqttCfg := cfg.Sinks.MQTT
	if opts.MQTT != "" {
		c := sink.MQTTConfig{URL: opts.MQTT, Topic: cfg.Name}
		if mqttCfg != nil {
			c = *mqttCfg
			c.URL = opts.MQTT
		}
		mqttCfg = &c
	}
	if mqttCfg != nil {
		m, err := sink.DialMQTT(*mqttCfg, mqttConnectTimeout, logger)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to connect to MQTT broker", err)
		}
		logger.Info("publishing to mqtt", slog.String("url", mqttCfg.URL), slog.String("topic", mqttCfg.Topic))
		out = append(out, m)
		closers = append(closers, m.Close)
	}

	return out, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

// player mounts scenes on one scheduler, chaining each to the next through
// the finish callback.
type player struct {
	sched  *scheduler.Scheduler
	scenes []render.Scene
	out    sink.Applier
	logger *slog.Logger

	mu     sync.Mutex
	played []string
	done   chan struct{}
}

func newPlayer(frames scheduler.FrameSource, scenes []render.Scene, out sink.Applier, logger *slog.Logger) *player {
	return &player{
		sched:  scheduler.New(frames, scheduler.WithObserver(scheduler.NewLoggingObserver(logger))),
		scenes: scenes,
		out:    out,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// play runs from scenes[start], seeked to seek, until the last scene
// finishes or ctx ends.
func (p *player) play(ctx context.Context, start int, seek float64) PlayResult {
	started := time.Now()
	p.mount(ctx, start, seek)

	select {
	case <-p.done:
	case <-ctx.Done():
	}
	p.sched.Unmount()

	p.mu.Lock()
	defer p.mu.Unlock()
	return PlayResult{
		Scenes:    append([]string{}, p.played...),
		Completed: len(p.played) == len(p.scenes)-start,
		Elapsed:   time.Since(started).Seconds(),
	}
}

func (p *player) mount(ctx context.Context, i int, seek float64) {
	sc := p.scenes[i]
	surface := sink.NewSurface(sc.Entry.Elements...)
	out := sink.Multi{surface}
	if p.out != nil {
		out = append(out, p.out)
	}
	stage := motion.NewStage(surface, out, motion.WithLogger(p.logger))

	flow := sc.Entry.Scene.Bind(stage)
	if i > 0 && sc.Transition != nil && sc.Transition.Duration > 0 && p.out != nil {
		flow = withLayer(flow, sc.Transition, p.out)
	}

	p.sched.Mount(ctx, scheduler.Mount{
		Scene:   sc.Name,
		Flow:    flow,
		Playing: true,
		Seek:    seek,
		Reset:   surface.Reset,
		OnFinished: func() {
			p.mu.Lock()
			p.played = append(p.played, sc.Name)
			p.mu.Unlock()

			if i+1 < len(p.scenes) && ctx.Err() == nil {
				p.mount(ctx, i+1, 0)
				return
			}
			close(p.done)
		},
	})
}

// withLayer runs the incoming layer style alongside flow for the length of
// the leading transition.
func withLayer(flow motion.Flow, tr *analyzer.Transition, out sink.Applier) motion.Flow {
	return func() motion.Task {
		layer := motion.TweenWith(tr.Duration, interp.Linear, func(p float64) {
			ls := project.TransitionStyle(tr.Kind, p)
			out.Apply(render.LayerTarget, render.LayerTransform, ls.Transform)
			out.Apply(render.LayerTarget, render.LayerOpacity, style.FormatNumber(ls.Opacity))
		})
		return motion.All(flow(), layer)
	}
}
