package motion

// TransitionKind names a scene transition.
type TransitionKind string

const (
	KindFade  TransitionKind = "fade"
	KindSlide TransitionKind = "slide"
	KindZoom  TransitionKind = "zoom"
)

// Valid reports whether k is one of the known kinds.
func (k TransitionKind) Valid() bool {
	switch k {
	case KindFade, KindSlide, KindZoom:
		return true
	}
	return false
}

// Transition waits like WaitFor. Its visual effect is left to the rendering
// layer, which reads Kind and Progress.
type Transition struct {
	wait
	kind TransitionKind
}

// Fade is a fade-in transition lasting seconds.
func Fade(seconds float64) *Transition { return newTransition(KindFade, seconds) }

// Slide is a slide-in transition lasting seconds.
func Slide(seconds float64) *Transition { return newTransition(KindSlide, seconds) }

// Zoom is a zoom-in transition lasting seconds.
func Zoom(seconds float64) *Transition { return newTransition(KindZoom, seconds) }

func newTransition(kind TransitionKind, seconds float64) *Transition {
	return &Transition{wait: wait{duration: seconds}, kind: kind}
}

// Kind returns the transition kind.
func (t *Transition) Kind() TransitionKind { return t.kind }

// Duration returns the declared duration in seconds.
func (t *Transition) Duration() float64 { return t.duration }

// Progress returns elapsed time normalised to [0,1].
func (t *Transition) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return min(t.elapsed/t.duration, 1)
}
