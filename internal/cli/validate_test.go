package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValidation(t *testing.T, out string) ValidationResult {
	t.Helper()
	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp.Data
}

func TestValidateValidProject(t *testing.T) {
	dir := yamlProject(t)

	out, err := execute(t, nil, "-C", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 scene(s) valid")
}

func TestValidateValidProjectJSON(t *testing.T) {
	dir := yamlProject(t)

	out, err := execute(t, nil, "-C", dir, "--format", "json", "validate")
	require.NoError(t, err)

	res := decodeValidation(t, out)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Scenes)
	assert.Empty(t, res.Issues)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	_, err := execute(t, nil, "-C", filepath.Join(t.TempDir(), "nope"), "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateNumberingGap(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":              "name: gap\n",
		"scenes/1-intro/scene.yaml": fadeScene,
		"scenes/3-outro/scene.yaml": fadeScene,
	})

	out, err := execute(t, nil, "-C", dir, "--format", "json", "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	res := decodeValidation(t, out)
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, SeverityError, res.Issues[0].Severity)
	assert.Equal(t, ErrCodeOrder, res.Issues[0].Code)
	assert.Equal(t, "2-outro", res.Issues[0].Suggest)
}

func TestValidateInvalidConfig(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":              "name: bad\nfps: -1\n",
		"scenes/1-intro/scene.yaml": fadeScene,
	})

	out, err := execute(t, nil, "-C", dir, "validate")
	require.Error(t, err)
	assert.Contains(t, out, "error [E003]")
	assert.Contains(t, out, "✗ validation failed")
}

func TestValidateParseError(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":             "name: broken\n",
		"scenes/1-only/scene.yaml": "flow:\n  - spin: 1\n",
	})

	out, err := execute(t, nil, "-C", dir, "validate")
	require.Error(t, err)
	assert.Contains(t, out, "error [E005] 1-only:")
}

func TestValidateUnknownToken(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml": "name: typo\n",
		"scenes/1-only/scene.yaml": `elements:
  - id: title
flow:
  - animate: {target: title, to: opacty-50, duration: 1}
`,
	})

	out, err := execute(t, nil, "-C", dir, "validate")
	require.NoError(t, err, "warnings alone do not fail validation")
	assert.Contains(t, out, `warning [E101] 1-only: unknown style token "opacty-50" (did you mean "opacity-50"?)`)
	assert.Contains(t, out, "✓ 1 scene(s) valid")

	_, err = execute(t, nil, "-C", dir, "validate", "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateGoScene(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"project.yaml":           "name: go\n",
		"scenes/1-logo/scene.go": goScene,
	})

	out, err := execute(t, testCatalog(), "-C", dir, "validate")
	require.NoError(t, err)
	assert.NotContains(t, out, "E103")

	out, err = execute(t, nil, "-C", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "warning [E103] 1-logo:")
}

func TestSuggestToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"opacty-50", "opacity-50"},
		{"-translat-x-4", "-translate-x-4"},
		{"scal-110", "scale-110"},
		{"wobble-3", ""},
		{"nodash", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestToken(tt.token))
		})
	}
}
