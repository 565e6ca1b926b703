package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/interp"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

type applied struct {
	target   string
	property style.Property
	value    string
}

type recordingSink struct {
	surface *sink.Surface
	log     []applied
}

func (r *recordingSink) Apply(id string, p style.Property, v string) {
	r.log = append(r.log, applied{id, p, v})
	r.surface.Apply(id, p, v)
}

func (r *recordingSink) values(property style.Property) []string {
	var out []string
	for _, a := range r.log {
		if a.property == property {
			out = append(out, a.value)
		}
	}
	return out
}

func newTestStage(specs ...sink.ElementSpec) (*Stage, *recordingSink) {
	surface := sink.NewSurface(specs...)
	rec := &recordingSink{surface: surface}
	return NewStage(surface, rec), rec
}

func TestAnimateFrom_ExplicitStart(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "title"})

	task := stage.Element("title").AnimateFrom("opacity-0", "opacity-100", 1)
	assert.Equal(t, 4, stepUntilDone(t, task, 0.25, 10))
	assert.Equal(t, []string{"0.0625", "0.5", "0.9375", "1"}, rec.values(style.Opacity))
}

func TestAnimate_StartsFromCurrentValueWhenReached(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "bar"})
	bar := stage.Element("bar")

	task := Chain(bar.Animate("w-[100px]", 1), bar.Animate("w-[200px]", 1))
	assert.Equal(t, 2, stepUntilDone(t, task, 1, 5))
	assert.Equal(t, []string{"100px", "100px", "200px"}, rec.values(style.Width))
}

func TestAnimate_ComputedStart(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{
		ID:       "card",
		Computed: map[string]string{"rotate": "90deg"},
	})

	task := stage.Animate(Animation{Target: "card", To: "rotate-0", Duration: 1, Easing: interp.Linear})
	assert.False(t, task.Next(0.5))
	assert.True(t, task.Next(0.5))
	assert.Equal(t, []string{"45deg", "0deg"}, rec.values(style.Rotate))
}

func TestAnimate_ClassStart(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "title", Classes: "opacity-0 translate-y-8"})

	task := stage.Animate(Animation{Target: "title", To: "opacity-100 translate-y-0", Duration: 1, Easing: interp.Linear})
	assert.False(t, task.Next(0.5))
	assert.True(t, task.Next(0.5))
	assert.Equal(t, []string{"0.5", "1"}, rec.values(style.Opacity))
	assert.Equal(t, []string{"0 16px", "0 0px"}, rec.values(style.Translate))
}

func TestAnimate_ClassColourStart(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "card", Classes: "bg-slate-900"})

	task := stage.Animate(Animation{Target: "card", To: "bg-sky-500", Duration: 1, Easing: interp.Linear})
	assert.False(t, task.Next(0.5))
	values := rec.values(style.BackgroundColor)
	require.Len(t, values, 1)
	assert.NotEqual(t, "rgba(0, 0, 0, 0)", values[0], "starts from the class colour, not transparent")
	assert.True(t, task.Next(0.5))
	assert.Equal(t, "rgba(14, 165, 233, 1)", rec.values(style.BackgroundColor)[1])
}

func TestAnimate_MissingTargetKeepsTiming(t *testing.T) {
	stage, rec := newTestStage()

	task := stage.Element("ghost").Animate("opacity-100", 1)
	assert.Equal(t, 2, stepUntilDone(t, task, 0.5, 10))
	assert.Empty(t, rec.log)
}

func TestAnimate_IgnoresUnknownTokens(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "box"})

	task := stage.Element("box").Animate("flex-1 translate-x-4 text-center", 0)
	require.True(t, task.Next(0))
	assert.Equal(t, []applied{{"box", style.Translate, "16px 0"}}, rec.log)
}

func TestAnimate_ColourEndpoints(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "panel"})

	task := stage.Element("panel").AnimateFrom("bg-red-500", "bg-blue-500", 1)
	stepUntilDone(t, task, 0.5, 5)

	values := rec.values(style.BackgroundColor)
	require.Len(t, values, 2)
	assert.Equal(t, "rgba(59, 130, 246, 1)", values[1])
}

func TestAnimate_GradientUpgrade(t *testing.T) {
	stage, rec := newTestStage(
		sink.ElementSpec{ID: "plain"},
		sink.ElementSpec{ID: "fancy", Classes: "bg-gradient-to-r from-red-500"},
	)

	require.True(t, stage.Element("plain").Animate("from-blue-500", 0).Next(0))
	require.True(t, stage.Element("fancy").Animate("from-blue-500", 0).Next(0))

	images := rec.values(BackgroundImage)
	require.Len(t, images, 1)
	assert.Contains(t, images[0], "linear-gradient")
	assert.Equal(t, []string{"rgba(59, 130, 246, 1)", "rgba(59, 130, 246, 1)"}, rec.values(style.GradientFrom))
}

func TestText_Typewriter(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "status"})

	task := stage.Element("status").Text("Hello", 1)
	assert.False(t, task.Next(0.5))
	assert.True(t, task.Next(0.5))
	assert.Equal(t, []string{"He", "Hello"}, rec.values(style.TextContent))
}

func TestSet_SnapsImmediately(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "dot"})

	assert.True(t, stage.Element("dot").Set("scale-150").Next(0))
	assert.Equal(t, []string{"1.5"}, rec.values(style.Scale))
}

func TestStage_SuppressedWritesNothing(t *testing.T) {
	stage, rec := newTestStage(sink.ElementSpec{ID: "title"})

	restore := Suppress()
	defer restore()

	task := All(
		stage.Element("title").Animate("from-blue-500 opacity-0", 1),
		stage.Element("title").Text("hi", 1),
	)
	assert.Equal(t, 4, stepUntilDone(t, task, 0.25, 10))
	assert.Empty(t, rec.log)
}

func TestSceneFunc_Bind(t *testing.T) {
	stage, _ := newTestStage(sink.ElementSpec{ID: "title"})
	var f SceneFunc = func(s *Stage) Task { return s.Element("title").Animate("opacity-0", 1) }

	flow := f.Bind(stage)
	first, second := flow(), flow()
	assert.NotSame(t, first, second)
}
