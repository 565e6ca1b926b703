package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_Text(t *testing.T) {
	dir := yamlProject(t)

	out, err := execute(t, nil, "-C", dir, "estimate")
	require.NoError(t, err)
	assert.Contains(t, out, "test: 2 scene(s), 2s")
	assert.Contains(t, out, "intro")
	assert.Contains(t, out, "outro")
	assert.Contains(t, out, "slide 0.5s")
	assert.NotContains(t, out, "cached")
	assert.FileExists(t, filepath.Join(dir, ".motion", "motion.db"))
}

func TestEstimate_JSON(t *testing.T) {
	dir := yamlProject(t)

	out, err := execute(t, nil, "-C", dir, "--format", "json", "estimate")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   EstimateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Data.Project)
	require.Len(t, resp.Data.Scenes, 2)

	intro, outro := resp.Data.Scenes[0], resp.Data.Scenes[1]
	assert.Equal(t, 1, intro.Index)
	assert.Equal(t, "intro", intro.Scene)
	assert.InDelta(t, 1.0, intro.Duration, 1e-9)
	assert.Nil(t, intro.Transition)

	assert.Equal(t, "outro", outro.Scene)
	assert.InDelta(t, 1.0, outro.Duration, 1e-9)
	require.NotNil(t, outro.Transition)
	assert.InDelta(t, 0.5, outro.Transition.Duration, 1e-9)

	require.Len(t, resp.Data.Timeline.Slots, 2)
	assert.InDelta(t, 1.0, resp.Data.Timeline.Slots[1].Start, 1e-9)
	assert.InDelta(t, 2.0, resp.Data.Timeline.Total, 1e-9)
}

func TestEstimate_CacheHit(t *testing.T) {
	dir := yamlProject(t)

	_, err := execute(t, nil, "-C", dir, "estimate")
	require.NoError(t, err)

	out, err := execute(t, nil, "-C", dir, "estimate")
	require.NoError(t, err)
	assert.Contains(t, out, "cached")

	out, err = execute(t, nil, "-C", dir, "estimate", "--no-cache")
	require.NoError(t, err)
	assert.NotContains(t, out, "cached")
}

func TestEstimate_Fallback(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":             "name: broken\ndefault_scene_duration: 3\n",
		"scenes/1-only/scene.yaml": "flow: [\n",
	})

	out, err := execute(t, nil, "-C", dir, "estimate", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "fallback")
}

func TestEstimate_MissingProject(t *testing.T) {
	_, err := execute(t, nil, "-C", filepath.Join(t.TempDir(), "missing"), "estimate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "project directory not found")
}

func TestEstimate_NumberingGap(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":              "name: gap\n",
		"scenes/1-intro/scene.yaml": fadeScene,
		"scenes/3-outro/scene.yaml": fadeScene,
	})

	_, err := execute(t, nil, "-C", dir, "estimate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
