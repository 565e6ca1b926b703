package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Database string
	Debounce time.Duration

	// Updates, when set, receives every re-estimation (for testing).
	Updates chan<- *EstimateResult
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-estimate the timeline whenever a scene changes",
		Long: `Watch project.yaml and the scene folders, and print the updated timeline
each time a scene source is saved, added, renamed or removed.

Unchanged scenes are answered from the estimate cache. Invalid states
(for example a numbering gap while folders are being renamed) are reported
and watching continues. Stop with Ctrl-C.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from project.yaml)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "quiet period before re-estimating")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	proj, err := loadProject(opts.Project)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return err
	}
	st, err := openStore(proj, opts.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start watcher", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &watchSession{
		opts:      opts,
		root:      opts.Project,
		scenesDir: filepath.Join(opts.Project, proj.Config.Scenes),
		store:     st,
		watcher:   w,
		logger:    logger,
		formatter: formatter,
		watched:   make(map[string]bool),
	}
	if err := s.watch(s.root); err != nil {
		return WrapExitError(ExitCommandError, "failed to watch project", err)
	}
	s.reload(ctx)
	return s.run(ctx)
}

type watchSession struct {
	opts      *WatchOptions
	root      string
	scenesDir string
	store     *store.Store
	watcher   *fsnotify.Watcher
	logger    *slog.Logger
	formatter *OutputFormatter
	watched   map[string]bool
}

func (s *watchSession) run(ctx context.Context) error {
	debounce := s.opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watch stopped")
			return nil

		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(ev) {
				continue
			}
			s.logger.Debug("change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			s.reload(ctx)
		}
	}
}

// relevant reports whether ev can change the timeline: project.yaml, any
// entry of the scenes directory, or a scene source.
func (s *watchSession) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	dir, base := filepath.Dir(ev.Name), filepath.Base(ev.Name)
	switch filepath.Clean(dir) {
	case filepath.Clean(s.root):
		return base == project.ConfigFile
	case filepath.Clean(s.scenesDir):
		return true
	}
	return base == project.GoSource || base == project.YAMLSource
}

// watch adds dir to the watcher once.
func (s *watchSession) watch(dir string) error {
	if s.watched[dir] {
		return nil
	}
	if err := s.watcher.Add(dir); err != nil {
		return err
	}
	s.watched[dir] = true
	return nil
}

// reload re-reads the project, widens the watch to any new scene folders
// and prints the timeline. Failures are reported, not returned.
func (s *watchSession) reload(ctx context.Context) {
	proj, err := project.Open(s.root)
	if err != nil {
		s.report(err)
		return
	}
	s.scenesDir = filepath.Join(s.root, proj.Config.Scenes)

	if err := s.watch(s.scenesDir); err != nil {
		s.report(fmt.Errorf("watch %s: %w", s.scenesDir, err))
		return
	}
	for _, sc := range proj.Scenes {
		if err := s.watch(filepath.Join(s.scenesDir, sc.Dir)); err != nil {
			s.report(fmt.Errorf("watch %s: %w", sc.Dir, err))
		}
	}

	ests, err := estimateScenes(ctx, proj, s.store, s.logger)
	if err != nil {
		s.report(err)
		return
	}
	result := &EstimateResult{Project: proj.Config.Name, Scenes: ests, Timeline: timeline(proj, ests)}
	_ = s.formatter.Render(result, func(w io.Writer) error {
		return writeEstimates(w, result)
	})
	if s.opts.Updates != nil {
		select {
		case s.opts.Updates <- result:
		case <-ctx.Done():
		}
	}
}

func (s *watchSession) report(err error) {
	s.logger.Debug("reload failed", slog.String("error", err.Error()))
	_ = s.formatter.Error(errorCode(err), err.Error(), nil)
}
