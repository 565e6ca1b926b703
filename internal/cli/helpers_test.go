package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

const fadeScene = `elements:
  - id: title
flow:
  - animate: {target: title, from: opacity-0, to: opacity-100, duration: 1}
`

const slideScene = `elements:
  - id: badge
flow:
  - slide: 0.5
  - animate: {target: badge, to: opacity-50, duration: 0.5}
`

const goScene = `package scene

import "github.com/Nareshtt/motion-dom-canvas/internal/motion"

func Flow(s *motion.Stage) motion.Task {
	return motion.Chain(motion.Fade(0.25), s.Element("logo").Animate("scale-110", 0.75))
}
`

// writeProject creates a project directory from relative path -> content.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// yamlProject is a two-scene YAML project whose database lives in the
// project directory.
func yamlProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"project.yaml":                 "name: test\nfps: 4\n",
		"scenes/1-intro/scene.yaml":    fadeScene,
		"scenes/2-outro/scene.yaml":    slideScene,
		"scenes/notes/readme.txt":      "not a scene",
		"scenes/1-intro/notes/ignored": "",
	})
}

// testCatalog registers the Go scene used by goScene projects.
func testCatalog() *project.Catalog {
	c := project.NewCatalog()
	c.Register("logo", project.Entry{
		Scene: func(s *motion.Stage) motion.Task {
			return motion.Chain(motion.Fade(0.25), s.Element("logo").Animate("scale-110", 0.75))
		},
		Elements: []sink.ElementSpec{{ID: "logo"}},
	})
	return c
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, catalog *project.Catalog, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand(catalog)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
