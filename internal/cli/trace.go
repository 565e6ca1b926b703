package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/render"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// LatestRun selects the most recent run.
const LatestRun = "latest"

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Frame    int64 // -1 for every frame
	Target   string
}

// TraceResult holds a stored run and its frames.
type TraceResult struct {
	Run     store.Run     `json:"run"`
	Records []sink.Record `json:"records"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Inspect stored render runs",
		Long: `List stored render runs, or print the values recorded by one run.

Run ids are time ordered; "latest" selects the most recent run.

Examples:
  motion trace
  motion trace latest
  motion trace 01920c1e-8a4b-7c3d-9e2f-0a1b2c3d4e5f --frame 12
  motion trace latest --target title --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runListRuns(opts, cmd)
			}
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from project.yaml)")
	cmd.Flags().Int64Var(&opts.Frame, "frame", -1, "only show this frame")
	cmd.Flags().StringVar(&opts.Target, "target", "", "only show values applied to this target")

	return cmd
}

func (o *TraceOptions) open(cmd *cobra.Command) (*store.Store, error) {
	formatter := o.formatter(cmd)
	proj, err := loadProject(o.Project)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return nil, err
	}
	st, err := openStore(proj, o.Database, o.logger(cmd))
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, err
	}
	if st == nil {
		err := NewExitError(ExitCommandError, "no database configured")
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, err
	}
	return st, nil
}

func runListRuns(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st, opts.logger(cmd))

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	return opts.formatter(cmd).Render(runs, func(w io.Writer) error {
		if len(runs) == 0 {
			_, err := fmt.Fprintln(w, "No runs found.")
			return err
		}
		for _, r := range runs {
			writeRunLine(w, r)
		}
		return nil
	})
}

func runTrace(opts *TraceOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)
	st, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st, opts.logger(cmd))

	if id == LatestRun {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if len(runs) == 0 {
			err := NewExitError(ExitCommandError, "no runs found")
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return err
		}
		id = runs[0].ID
	}

	run, err := st.GetRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		err := NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return err
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	var records []sink.Record
	if opts.Frame >= 0 {
		records, err = st.ReadFrame(ctx, id, opts.Frame)
	} else {
		records, err = st.ReadFrames(ctx, id)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read frames", err)
	}
	if opts.Target != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.Target == opts.Target {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	result := TraceResult{Run: run, Records: records}
	return formatter.Render(result, func(w io.Writer) error {
		writeRunLine(w, run)
		render.WriteRecords(w, records)
		return nil
	})
}

func writeRunLine(w io.Writer, r store.Run) {
	fmt.Fprintf(w, "%s  %s  %d fps  %d frame(s)  %ss",
		r.ID, r.StartedAt.Local().Format(time.DateTime), r.FPS, r.Frames, style.FormatNumber(round3(r.Duration)))
	if r.Truncated {
		fmt.Fprint(w, "  truncated")
	}
	if r.Project != "" {
		fmt.Fprintf(w, "  %s", r.Project)
	}
	fmt.Fprintln(w)
}
