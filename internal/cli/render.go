package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/render"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Database    string
	NoStore     bool
	FPS         int
	MaxDuration float64
	Records     bool // print every record

	// NewRunID overrides the UUIDv7 run id generator (for testing).
	NewRunID func() (string, error)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Step the project offline at a fixed frame rate",
		Long: `Render every scene offline, advancing each flow by exactly 1/fps per
frame, and record every applied value with its frame index and time.

The run and its frames are stored in the project database so they can be
inspected later with 'motion trace'. Rendering stops at max_duration.

Examples:
  motion render
  motion render --fps 30 --max-duration 60
  motion render --no-store --records`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from project.yaml)")
	cmd.Flags().BoolVar(&opts.NoStore, "no-store", false, "do not persist the run")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frame rate (default from project.yaml)")
	cmd.Flags().Float64Var(&opts.MaxDuration, "max-duration", 0, "render length cap in seconds (default from project.yaml)")
	cmd.Flags().BoolVar(&opts.Records, "records", false, "print every recorded value")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	proj, err := loadProject(opts.Project)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return err
	}

	var st *store.Store
	if !opts.NoStore {
		if st, err = openStore(proj, opts.Database, logger); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return err
		}
		defer closeStore(st, logger)
	}

	ests, err := estimateScenes(cmd.Context(), proj, st, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to estimate scenes", err)
	}
	scenes, err := resolveScenes(proj, opts.Catalog, ests)
	if err != nil {
		_ = formatter.Error(ErrCodeNotCompiled, err.Error(), nil)
		return err
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = proj.Config.FPS
	}
	maxDuration := opts.MaxDuration
	if maxDuration <= 0 {
		maxDuration = proj.Config.MaxDuration
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := render.Render(ctx, scenes, render.Options{
		FPS:         fps,
		MaxDuration: maxDuration,
		Project:     proj.Config.Name,
		Store:       st,
		Logger:      logger,
		NewRunID:    opts.NewRunID,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "render failed", err)
	}
	if res.Truncated {
		logger.Warn("render truncated", slog.Float64("max_duration", maxDuration))
	}

	if !opts.Records {
		res.Records = nil
	}
	return formatter.Render(res, func(w io.Writer) error {
		if opts.Records {
			return render.WriteTrace(w, res)
		}
		return writeRenderSummary(w, res, st != nil)
	})
}

func writeRenderSummary(w io.Writer, res *render.Result, stored bool) error {
	fmt.Fprintf(w, "Rendered %d frame(s), %ss", res.Frames, style.FormatNumber(round3(res.Duration)))
	if res.Truncated {
		fmt.Fprint(w, " (truncated)")
	}
	fmt.Fprintln(w)
	for _, s := range res.Scenes {
		state := "finished"
		if !s.Finished {
			state = "cut"
		}
		fmt.Fprintf(w, "  %-16s frames %d-%d %s\n", s.Scene, s.FirstFrame, s.LastFrame, state)
	}
	if stored {
		fmt.Fprintf(w, "Run: %s\n", res.RunID)
	}
	return nil
}
