package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/render"
	"github.com/Nareshtt/motion-dom-canvas/internal/store"
)

// SceneEstimate is one scene's duration estimate as reported by the CLI.
type SceneEstimate struct {
	Index int                `json:"index"`
	Scene string             `json:"scene"`
	Kind  project.SourceKind `json:"kind"`
	// Cached is set when the store answered without re-analysing.
	Cached bool `json:"cached"`
	analyzer.Estimate
}

// loadProject opens the project directory and maps failures onto exit codes:
// a missing directory is a command error, a broken project is a failure.
func loadProject(dir string) (*project.Project, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("project directory not found: %s", dir))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "error accessing project directory", err)
	}
	if !info.IsDir() {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("not a directory: %s", dir))
	}

	proj, err := project.Open(dir)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load project", err)
	}
	return proj, nil
}

// errorCode classifies a load error for CLIError.Code.
func errorCode(err error) string {
	switch {
	case project.IsConfigError(err):
		return ErrCodeConfig
	case project.IsOrderError(err):
		return ErrCodeOrder
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError && exitErr.Err == nil {
		return ErrCodeNotFound
	}
	return ErrCodeGeneric
}

// openStore opens the store at override, or at the project's configured
// path. An empty path disables the store.
func openStore(proj *project.Project, override string, logger *slog.Logger) (*store.Store, error) {
	path := override
	if path == "" {
		path = proj.DatabasePath()
	}
	if path == "" {
		return nil, nil
	}

	logger.Debug("opening database", slog.String("path", path))
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logger.Error("error closing database", slog.String("error", err.Error()))
	}
}

// estimateScenes analyses every scene in parallel. When st is not nil the
// estimate cache answers unchanged sources and stale entries are pruned.
func estimateScenes(ctx context.Context, proj *project.Project, st *store.Store, logger *slog.Logger) ([]SceneEstimate, error) {
	out := make([]SceneEstimate, len(proj.Scenes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, sc := range proj.Scenes {
		g.Go(func() error {
			src, err := sc.ReadSource()
			if err != nil {
				return err
			}
			compute := func(src []byte) analyzer.Estimate {
				return project.EstimateSource(sc.Kind, sc.Path, src)
			}

			res := SceneEstimate{Index: sc.Index, Scene: sc.Name, Kind: sc.Kind}
			if st == nil {
				res.Estimate = compute(src)
			} else {
				est, hit, err := st.Estimate(ctx, sc.Name, string(sc.Kind), src, compute)
				if err != nil {
					return fmt.Errorf("scene %s: %w", sc.Name, err)
				}
				if _, err := st.PruneEstimates(ctx, sc.Name, store.SourceHash(string(sc.Kind), src)); err != nil {
					return fmt.Errorf("scene %s: %w", sc.Name, err)
				}
				res.Estimate, res.Cached = est, hit
			}

			logger.Debug("scene estimated",
				slog.String("scene", sc.Name),
				slog.Float64("duration", res.Duration),
				slog.Bool("cached", res.Cached),
				slog.Bool("fallback", res.Fallback))
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// timeline lays the estimated scenes end to end.
func timeline(proj *project.Project, ests []SceneEstimate) *project.Timeline {
	raw := make([]analyzer.Estimate, len(ests))
	for i, e := range ests {
		raw[i] = e.Estimate
	}
	return project.Layout(proj.Names(), raw, proj.Config.DefaultSceneDuration)
}

// resolveScenes pairs each scene with its runnable flow and leading
// transition.
func resolveScenes(proj *project.Project, catalog *project.Catalog, ests []SceneEstimate) ([]render.Scene, error) {
	scenes := make([]render.Scene, len(proj.Scenes))
	for i, sc := range proj.Scenes {
		entry, err := catalog.Resolve(sc)
		if err != nil {
			return nil, WrapExitError(ExitFailure, fmt.Sprintf("scene %s", sc.Dir), err)
		}
		scenes[i] = render.Scene{Name: sc.Name, Entry: entry}
		if i < len(ests) {
			scenes[i].Transition = ests[i].Transition
		}
	}
	return scenes, nil
}
