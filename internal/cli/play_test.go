package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/render"
	"github.com/Nareshtt/motion-dom-canvas/internal/scheduler"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// fastFrames delivers frames step apart as fast as the scheduler takes them.
type fastFrames struct {
	step time.Duration
}

func (f fastFrames) Frames(ctx context.Context) <-chan time.Time {
	ch := make(chan time.Time)
	go func() {
		now := time.Unix(0, 0)
		for {
			select {
			case ch <- now:
				now = now.Add(f.step)
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadScenes(t *testing.T, dir string) []render.Scene {
	t.Helper()
	proj, err := loadProject(dir)
	require.NoError(t, err)
	ests, err := estimateScenes(t.Context(), proj, nil, discardLogger())
	require.NoError(t, err)
	scenes, err := resolveScenes(proj, project.NewCatalog(), ests)
	require.NoError(t, err)
	return scenes
}

// tickUntilDone steps frames until the player reports completion.
func tickUntilDone(t *testing.T, ctx context.Context, frames *scheduler.Manual, p *player) {
	t.Helper()
	for {
		select {
		case <-p.done:
			return
		default:
		}
		require.NoError(t, frames.Tick(ctx, scheduler.MaxFrameStep))
	}
}

func TestPlayer_ChainsScenes(t *testing.T) {
	scenes := loadScenes(t, yamlProject(t))
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	frames := scheduler.NewManual()
	rec := &sink.Recorder{}
	p := newPlayer(frames, scenes, rec, discardLogger())

	results := make(chan PlayResult, 1)
	go func() { results <- p.play(ctx, 0, 0) }()

	tickUntilDone(t, ctx, frames, p)
	res := <-results
	assert.True(t, res.Completed)
	assert.Equal(t, []string{"intro", "outro"}, res.Scenes)

	var layer, title bool
	for _, r := range rec.Records() {
		switch r.Target {
		case render.LayerTarget:
			layer = true
		case "title":
			title = title || (r.Property == "opacity" && r.Value == "1")
		}
	}
	assert.True(t, layer, "incoming scene layer is styled during the transition")
	assert.True(t, title, "title reaches full opacity")
}

func TestPlayer_StartsMidTimeline(t *testing.T) {
	scenes := loadScenes(t, yamlProject(t))
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	frames := scheduler.NewManual()
	p := newPlayer(frames, scenes, nil, discardLogger())

	results := make(chan PlayResult, 1)
	go func() { results <- p.play(ctx, 1, 0.5) }()

	tickUntilDone(t, ctx, frames, p)
	res := <-results
	assert.True(t, res.Completed)
	assert.Equal(t, []string{"outro"}, res.Scenes)
}

func TestPlayer_SeekPastEnd(t *testing.T) {
	scenes := loadScenes(t, yamlProject(t))
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	frames := scheduler.NewManual()
	p := newPlayer(frames, scenes, nil, discardLogger())

	results := make(chan PlayResult, 1)
	go func() { results <- p.play(ctx, 1, 5) }()

	res := <-results
	assert.True(t, res.Completed, "a seek that completes the last scene finishes playback")
	assert.Equal(t, []string{"outro"}, res.Scenes)
}

func TestPlayer_Interrupted(t *testing.T) {
	scenes := loadScenes(t, yamlProject(t))
	ctx, cancel := context.WithCancel(t.Context())

	frames := scheduler.NewManual()
	p := newPlayer(frames, scenes, nil, discardLogger())

	results := make(chan PlayResult, 1)
	go func() { results <- p.play(ctx, 0, 0) }()

	require.NoError(t, frames.Tick(ctx, 0))
	require.NoError(t, frames.Tick(ctx, scheduler.MaxFrameStep))
	cancel()

	res := <-results
	assert.False(t, res.Completed)
	assert.Empty(t, res.Scenes)
}

func TestRunPlay(t *testing.T) {
	dir := yamlProject(t)
	opts := &PlayOptions{
		RootOptions: &RootOptions{Format: "json", Project: dir, Catalog: project.NewCatalog()},
		Frames:      fastFrames{step: 100 * time.Millisecond},
	}

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(t.Context())
	require.NoError(t, runPlay(opts, cmd))

	var resp struct {
		Data PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Data.Completed)
	assert.Equal(t, []string{"intro", "outro"}, resp.Data.Scenes)
}

func TestRunPlay_FromScene(t *testing.T) {
	dir := yamlProject(t)
	opts := &PlayOptions{
		RootOptions: &RootOptions{Format: "text", Project: dir, Catalog: project.NewCatalog()},
		Scene:       "outro",
		Frames:      fastFrames{step: 100 * time.Millisecond},
	}

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(t.Context())
	require.NoError(t, runPlay(opts, cmd))
	assert.Equal(t, "played outro\n", out.String())
}

func TestPlay_FlagErrors(t *testing.T) {
	dir := yamlProject(t)

	_, err := execute(t, nil, "-C", dir, "play", "--scene", "intro", "--at", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, nil, "-C", dir, "play", "--at", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, nil, "-C", dir, "play", "--scene", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene not found: missing")
}
