package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
)

func TestOrder_AcceptsSequence(t *testing.T) {
	folders, err := Order([]string{"3-outro", "1-intro", "2-feature"})
	require.NoError(t, err)

	want := []Folder{
		{Index: 1, Name: "intro", Dir: "1-intro"},
		{Index: 2, Name: "feature", Dir: "2-feature"},
		{Index: 3, Name: "outro", Dir: "3-outro"},
	}
	if diff := cmp.Diff(want, folders); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_RejectsGap(t *testing.T) {
	_, err := Order([]string{"1-intro", "2-feature", "4-outro"})
	require.Error(t, err)
	assert.True(t, IsMissingIndex(err))

	var oe *OrderError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 3, oe.Index)
	assert.Equal(t, 2, oe.Previous)
	assert.Equal(t, []string{"4-outro"}, oe.Sources)
	assert.Equal(t, "3-", oe.Suggest)
	assert.Contains(t, err.Error(), `rename it to start with "3-"`)
}

func TestOrder_RejectsDuplicate(t *testing.T) {
	_, err := Order([]string{"1-intro", "2-b", "2-a"})
	require.Error(t, err)
	assert.True(t, IsDuplicateIndex(err))

	var oe *OrderError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, 2, oe.Index)
	assert.Equal(t, []string{"2-a", "2-b"}, oe.Sources)
}

func TestOrder_RejectsBadName(t *testing.T) {
	_, err := Order([]string{"1-intro", "outro"})
	require.Error(t, err)
	assert.True(t, IsOrderError(err))
	assert.False(t, IsMissingIndex(err))
	assert.Contains(t, err.Error(), `"outro"`)
}

func TestOrder_MustStartAtOne(t *testing.T) {
	_, err := Order([]string{"2-intro"})
	assert.True(t, IsMissingIndex(err))
}

func TestOrder_Empty(t *testing.T) {
	folders, err := Order(nil)
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestParseFolder(t *testing.T) {
	f, err := ParseFolder("01-big-intro")
	require.NoError(t, err)
	assert.Equal(t, Folder{Index: 1, Name: "big-intro", Dir: "01-big-intro"}, f)

	_, err = ParseFolder("-intro")
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2-feature", YAMLSource), "flow:\n  - wait: 1\n")
	writeFile(t, filepath.Join(dir, "1-intro", GoSource), "package intro\n")
	writeFile(t, filepath.Join(dir, "1-intro", YAMLSource), "flow:\n  - wait: 1\n")
	writeFile(t, filepath.Join(dir, "assets", "logo.svg"), "<svg/>")
	writeFile(t, filepath.Join(dir, "README.md"), "notes")

	scenes, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, "intro", scenes[0].Name)
	assert.Equal(t, SourceGo, scenes[0].Kind)
	assert.Equal(t, filepath.Join(dir, "1-intro", GoSource), scenes[0].Path)
	assert.Equal(t, "feature", scenes[1].Name)
	assert.Equal(t, SourceYAML, scenes[1].Kind)
}

func TestDiscover_OrderViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1-intro", YAMLSource), "flow:\n  - wait: 1\n")
	writeFile(t, filepath.Join(dir, "3-outro", YAMLSource), "flow:\n  - wait: 1\n")

	_, err := Discover(dir)
	assert.True(t, IsMissingIndex(err))
}

func TestEstimateSource(t *testing.T) {
	yamlEst := EstimateSource(SourceYAML, "scene.yaml", []byte("flow:\n  - slide: 1\n  - wait: 2\n"))
	assert.Equal(t, 3.0, yamlEst.Duration)
	require.NotNil(t, yamlEst.Transition)
	assert.Equal(t, motion.KindSlide, yamlEst.Transition.Kind)

	goEst := EstimateSource(SourceGo, "scene.go", []byte("package x\nfunc Flow() motion.Task { return motion.WaitFor(4) }\n"))
	assert.Equal(t, 4.0, goEst.Duration)

	broken := EstimateSource(SourceGo, "scene.go", []byte("not go"))
	assert.True(t, broken.Fallback)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader("name: demo\nfps: 30\n"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Name = "demo"
	want.FPS = 30
	assert.Equal(t, want, cfg)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Rejects(t *testing.T) {
	cases := map[string]struct {
		yaml  string
		field string
	}{
		"zero fps":       {yaml: "fps: 0\n", field: "fps"},
		"negative width": {yaml: "width: -1\n", field: "width"},
		"empty name":     {yaml: "name: \"\"\n", field: "name"},
		"bad broker":     {yaml: "sinks:\n  mqtt:\n    url: http://x\n    topic: t\n", field: "sinks.mqtt.url"},
		"bad qos":        {yaml: "sinks:\n  mqtt:\n    url: tcp://x:1883\n    topic: t\n    qos: 3\n", field: "sinks.mqtt.qos"},
		"unknown field":  {yaml: "fsp: 30\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tc.yaml))
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "got %T: %v", err, err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			if tc.field != "" {
				assert.Equal(t, tc.field, ce.Field)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	require.NoError(t, err, "a missing file yields defaults")
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(dir, ConfigFile)
	writeFile(t, path, "fps: 500\n")
	_, err = LoadConfig(path)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.Path)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFile), "name: demo\nscenes: src/scenes\n")
	writeFile(t, filepath.Join(dir, "src", "scenes", "1-intro", YAMLSource), "flow:\n  - wait: 1\n")

	p, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro"}, p.Names())
	assert.Equal(t, filepath.Join(dir, ".motion", "motion.db"), p.DatabasePath())

	s, ok := p.Find("1-intro")
	require.True(t, ok)
	assert.Equal(t, "intro", s.Name)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	scene := func(s *motion.Stage) motion.Task { return motion.WaitFor(1) }
	c.Register("intro", Entry{Scene: scene})
	c.Register("feature", Entry{Scene: scene})

	assert.Equal(t, []string{"feature", "intro"}, c.Names())
	assert.Panics(t, func() { c.Register("intro", Entry{Scene: scene}) })
	assert.Panics(t, func() { c.Register("nil", Entry{}) })

	_, ok := c.Lookup("intro")
	assert.True(t, ok)
	assert.Equal(t, []string{"intro"}, c.Suggest("itr"))

	_, err := c.Resolve(Scene{Folder: Folder{Name: "intr"}, Kind: SourceGo})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "intro"`)
}

func TestCatalog_ResolveYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), YAMLSource)
	writeFile(t, path, "elements:\n  - id: title\nflow:\n  - wait: 1\n")

	e, err := NewCatalog().Resolve(Scene{Kind: SourceYAML, Path: path})
	require.NoError(t, err)
	assert.NotNil(t, e.Scene)
	require.Len(t, e.Elements, 1)
	assert.Equal(t, "title", e.Elements[0].ID)
}

func TestLayoutAndLocate(t *testing.T) {
	fade := &analyzer.Transition{Kind: motion.KindFade, Duration: 1}
	tl := Layout(
		[]string{"intro", "feature", "outro"},
		[]analyzer.Estimate{{Duration: 2}, {Duration: 3, Transition: fade}, {}},
		10,
	)

	assert.Equal(t, 15.0, tl.Total)
	assert.Equal(t, []float64{0, 2, 5}, []float64{tl.Slots[0].Start, tl.Slots[1].Start, tl.Slots[2].Start})
	assert.Equal(t, 10.0, tl.Slots[2].Duration)

	cases := []struct {
		at     float64
		index  int
		offset float64
	}{
		{-1, 0, 0},
		{0, 0, 0},
		{1.5, 0, 1.5},
		{2, 1, 0},
		{4.5, 1, 2.5},
		{14, 2, 9},
		{99, 2, 10},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.at), func(t *testing.T) {
			i, off := tl.Locate(tc.at)
			assert.Equal(t, tc.index, i)
			assert.InDelta(t, tc.offset, off, 1e-12)
		})
	}

	in, p := tl.InTransition(1, 0.25)
	assert.True(t, in)
	assert.Equal(t, 0.25, p)
	in, _ = tl.InTransition(1, 1)
	assert.False(t, in)
	in, _ = tl.InTransition(0, 0)
	assert.False(t, in)

	i, _ := (&Timeline{}).Locate(3)
	assert.Equal(t, -1, i)
}

func TestTransitionStyle(t *testing.T) {
	assert.Equal(t, LayerStyle{Transform: "translateX(75%)", Opacity: 1}, TransitionStyle(motion.KindSlide, 0.25))
	assert.Equal(t, LayerStyle{Transform: "none", Opacity: 0.25}, TransitionStyle(motion.KindFade, 0.25))
	assert.Equal(t, LayerStyle{Transform: "scale(0.75)", Opacity: 0.5}, TransitionStyle(motion.KindZoom, 0.5))
	assert.Equal(t, LayerStyle{Transform: "none", Opacity: 1}, TransitionStyle("wipe", 0.5))
}
