package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

type fakeElement struct {
	inline   map[style.Property]string
	computed map[style.Property]string
	classes  []string
}

func (f *fakeElement) Inline(p style.Property) (string, bool) {
	v, ok := f.inline[p]
	return v, ok
}

func (f *fakeElement) Computed(p style.Property) (string, bool) {
	v, ok := f.computed[p]
	return v, ok
}

func (f *fakeElement) Classes() []string { return f.classes }

type fakeEnv map[string]*fakeElement

func (e fakeEnv) Element(id string) (Element, bool) {
	el, ok := e[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func mustParse(t *testing.T, token string) style.Descriptor {
	t.Helper()
	d, ok := style.Parse(token)
	require.True(t, ok, token)
	return d
}

func TestCurrent_InlineWinsOverComputed(t *testing.T) {
	el := &fakeElement{
		inline:   map[style.Property]string{style.Width: "37.5px"},
		computed: map[style.Property]string{style.Width: "100px"},
	}
	assert.Equal(t, 37.5, Current(el, mustParse(t, "w-4")).Scalar)
}

func TestCurrent_ComputedThenDefault(t *testing.T) {
	el := &fakeElement{computed: map[style.Property]string{style.Height: "64px"}}
	assert.Equal(t, 64.0, Current(el, mustParse(t, "h-4")).Scalar)
	assert.Equal(t, 1.0, Current(el, mustParse(t, "opacity-0")).Scalar)
	assert.Equal(t, 1.0, Current(el, mustParse(t, "scale-50")).Scalar)
	assert.Equal(t, 0.0, Current(el, mustParse(t, "rotate-45")).Scalar)
	assert.Equal(t, 0.0, Current(el, mustParse(t, "mt-4")).Scalar)
}

func TestCurrent_TranslatePerAxis(t *testing.T) {
	el := &fakeElement{inline: map[style.Property]string{style.Translate: "0 -16px"}}
	assert.Equal(t, 0.0, Current(el, mustParse(t, "translate-x-4")).Scalar)
	assert.Equal(t, -16.0, Current(el, mustParse(t, "translate-y-4")).Scalar)
}

func TestCurrent_FilterFunctions(t *testing.T) {
	el := &fakeElement{inline: map[style.Property]string{style.Filter: "blur(12px)"}}
	assert.Equal(t, 12.0, Current(el, mustParse(t, "blur-sm")).Scalar)
	assert.Equal(t, 1.0, Current(el, mustParse(t, "brightness-150")).Scalar)
}

func TestCurrent_UnreadableFallsThrough(t *testing.T) {
	el := &fakeElement{
		inline:   map[style.Property]string{style.Opacity: "auto"},
		computed: map[style.Property]string{style.Opacity: "0.25"},
	}
	assert.Equal(t, 0.25, Current(el, mustParse(t, "opacity-100")).Scalar)
}

func TestCurrent_GradientStopLayers(t *testing.T) {
	d := mustParse(t, "from-blue-500")

	inline := &fakeElement{
		inline:  map[style.Property]string{style.GradientFrom: "rgba(1, 2, 3, 1)"},
		classes: []string{"from-red-500"},
	}
	assert.Equal(t, "rgba(1, 2, 3, 1)", Current(inline, d).Color.String())

	class := &fakeElement{
		inline:   map[style.Property]string{style.GradientFrom: "transparent"},
		classes:  []string{"bg-gradient-to-r", "from-red-500", "to-blue-500"},
		computed: map[style.Property]string{style.BackgroundColor: "rgb(0, 255, 0)"},
	}
	assert.Equal(t, "rgba(239, 68, 68, 1)", Current(class, d).Color.String())

	background := &fakeElement{
		classes:  []string{"to-blue-500"},
		computed: map[style.Property]string{style.BackgroundColor: "rgb(0, 255, 0)"},
	}
	assert.Equal(t, "rgba(0, 255, 0, 1)", Current(background, d).Color.String())

	assert.Equal(t, style.Transparent, Current(&fakeElement{}, d).Color)
}

func TestCurrent_ColourDefaults(t *testing.T) {
	el := &fakeElement{}
	assert.Equal(t, style.Black, Current(el, mustParse(t, "text-white")).Color)
	assert.Equal(t, style.Transparent, Current(el, mustParse(t, "bg-white")).Color)
	assert.True(t, Current(el, mustParse(t, "bg-white")).IsColor)
}

func TestExplicitAndEnd(t *testing.T) {
	w := mustParse(t, "w-[100px]")
	assert.Equal(t, 100.0, End(w).Scalar)
	assert.Equal(t, 48.0, Explicit("w-12", w).Scalar)

	o := mustParse(t, "opacity-100")
	assert.Equal(t, 1.0, End(o).Scalar)
	assert.Equal(t, 0.0, Explicit("opacity-0", o).Scalar)

	bg := mustParse(t, "bg-white")
	assert.Equal(t, "rgba(239, 68, 68, 1)", Explicit("bg-red-500", bg).Color.String())
	assert.Equal(t, style.Transparent, Explicit("bg-nope", bg).Color)
}

func TestReadCurrent_MissingTarget(t *testing.T) {
	env := fakeEnv{"title": &fakeElement{}}

	_, ok := ReadCurrent(env, "missing", mustParse(t, "w-4"))
	assert.False(t, ok)

	q, ok := ReadCurrent(env, "title", mustParse(t, "opacity-50"))
	require.True(t, ok)
	assert.Equal(t, 1.0, q.Scalar)
}
