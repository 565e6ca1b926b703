package project

import (
	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Slot is one scene's place on the project timeline.
type Slot struct {
	Scene    string  `json:"scene"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	// Transition is the scene's leading transition into it, if any.
	Transition *analyzer.Transition `json:"transition,omitempty"`
}

// End returns the slot's end time.
func (s Slot) End() float64 { return s.Start + s.Duration }

// Timeline lays scenes end to end.
type Timeline struct {
	Slots []Slot  `json:"slots"`
	Total float64 `json:"total"`
}

// Layout builds a timeline from per-scene estimates. Scenes whose estimate
// is not positive take defaultDuration.
func Layout(names []string, estimates []analyzer.Estimate, defaultDuration float64) *Timeline {
	t := &Timeline{Slots: make([]Slot, len(names))}
	for i, name := range names {
		var est analyzer.Estimate
		if i < len(estimates) {
			est = estimates[i]
		}
		d := est.Duration
		if d <= 0 {
			d = defaultDuration
		}
		t.Slots[i] = Slot{Scene: name, Start: t.Total, Duration: d, Transition: est.Transition}
		t.Total += d
	}
	return t
}

// Locate returns the slot index containing global time at and the
// scene-local offset. Times past the end clamp to the end of the last
// scene; an empty timeline returns -1.
func (t *Timeline) Locate(at float64) (int, float64) {
	if len(t.Slots) == 0 {
		return -1, 0
	}
	at = max(at, 0)
	for i, s := range t.Slots {
		if at < s.End() {
			return i, at - s.Start
		}
	}
	last := len(t.Slots) - 1
	return last, t.Slots[last].Duration
}

// InTransition reports whether the scene-local offset of slot i falls inside
// its leading transition, and the transition progress. The first scene never
// transitions in.
func (t *Timeline) InTransition(i int, offset float64) (bool, float64) {
	if i <= 0 || i >= len(t.Slots) {
		return false, 0
	}
	tr := t.Slots[i].Transition
	if tr == nil || tr.Duration <= 0 || offset >= tr.Duration {
		return false, 0
	}
	return true, max(offset, 0) / tr.Duration
}

// LayerStyle is the style of the incoming scene layer during a transition.
type LayerStyle struct {
	Transform string  `json:"transform"`
	Opacity   float64 `json:"opacity"`
}

// TransitionStyle returns the incoming layer style at progress p. Unknown
// kinds render the layer as is.
func TransitionStyle(kind motion.TransitionKind, p float64) LayerStyle {
	switch kind {
	case motion.KindSlide:
		return LayerStyle{Transform: "translateX(" + style.FormatNumber((1-p)*100) + "%)", Opacity: 1}
	case motion.KindFade:
		return LayerStyle{Transform: "none", Opacity: p}
	case motion.KindZoom:
		return LayerStyle{Transform: "scale(" + style.FormatNumber(0.5+0.5*p) + ")", Opacity: p}
	}
	return LayerStyle{Transform: "none", Opacity: 1}
}
