package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	*RootOptions
	Database string
	NoCache  bool
}

// EstimateResult is the estimate command output.
type EstimateResult struct {
	Project  string            `json:"project"`
	Scenes   []SceneEstimate   `json:"scenes"`
	Timeline *project.Timeline `json:"timeline"`
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate scene durations and lay out the timeline",
		Long: `Statically analyse every scene flow and print its duration, its leading
transition and where it starts on the project timeline.

Estimates are cached in the project database keyed by source content, so
unchanged scenes are not re-analysed.

Examples:
  motion estimate
  motion estimate -C ./demo --no-cache
  motion estimate --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from project.yaml)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "analyse every scene without the estimate cache")

	return cmd
}

func runEstimate(opts *EstimateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	proj, err := loadProject(opts.Project)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return err
	}

	result, err := estimateProject(opts, cmd, proj)
	if err != nil {
		_ = formatter.Error(ErrCodeScene, err.Error(), nil)
		return err
	}
	logger.Debug("timeline laid out", "scenes", len(result.Scenes), "total", result.Timeline.Total)

	return formatter.Render(result, func(w io.Writer) error {
		return writeEstimates(w, result)
	})
}

func estimateProject(opts *EstimateOptions, cmd *cobra.Command, proj *project.Project) (*EstimateResult, error) {
	logger := opts.logger(cmd)

	var st *store.Store
	if !opts.NoCache {
		var err error
		if st, err = openStore(proj, opts.Database, logger); err != nil {
			return nil, err
		}
		defer closeStore(st, logger)
	}

	ests, err := estimateScenes(cmd.Context(), proj, st, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to estimate scenes", err)
	}
	return &EstimateResult{
		Project:  proj.Config.Name,
		Scenes:   ests,
		Timeline: timeline(proj, ests),
	}, nil
}

func writeEstimates(w io.Writer, res *EstimateResult) error {
	fmt.Fprintf(w, "%s: %d scene(s), %ss\n", res.Project, len(res.Scenes), style.FormatNumber(round3(res.Timeline.Total)))
	for i, e := range res.Scenes {
		slot := res.Timeline.Slots[i]
		var notes []string
		if tr := e.Transition; tr != nil {
			notes = append(notes, fmt.Sprintf("%s %ss", tr.Kind, style.FormatNumber(tr.Duration)))
		}
		if e.Cached {
			notes = append(notes, "cached")
		}
		if e.Fallback {
			notes = append(notes, "fallback: "+strings.Join(e.Diagnostics, "; "))
		}
		fmt.Fprintf(w, "  %2d %-16s %8s +%8s  %s\n",
			e.Index, e.Scene,
			style.FormatNumber(round3(slot.Start)),
			style.FormatNumber(round3(slot.Duration)),
			strings.Join(notes, ", "))
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
