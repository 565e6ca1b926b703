package motion

import (
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/Nareshtt/motion-dom-canvas/internal/interp"
	"github.com/Nareshtt/motion-dom-canvas/internal/resolve"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Sink receives serialized property values keyed by element identifier.
type Sink interface {
	Apply(targetID string, property style.Property, value string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(targetID string, property style.Property, value string)

// Apply calls f.
func (f SinkFunc) Apply(targetID string, property style.Property, value string) {
	f(targetID, property, value)
}

// BackgroundImage is written once when gradient stops are animated on an
// element that has no gradient yet.
const BackgroundImage style.Property = "backgroundImage"

const gradientImage = "linear-gradient(to right, var(--tw-gradient-from), var(--tw-gradient-via, transparent), var(--tw-gradient-to))"

// Stage binds flows to one render environment.
type Stage struct {
	env    resolve.Environment
	sink   Sink
	logger *slog.Logger
}

// StageOption configures a Stage.
type StageOption func(*Stage)

// WithLogger sets the logger used for ignored tokens and missing targets.
func WithLogger(l *slog.Logger) StageOption {
	return func(s *Stage) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStage creates a stage reading from env and writing to sink.
func NewStage(env resolve.Environment, sink Sink, opts ...StageOption) *Stage {
	if env == nil {
		panic("motion: NewStage: nil environment")
	}
	if sink == nil {
		panic("motion: NewStage: nil sink")
	}
	s := &Stage{
		env:    env,
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Element returns a handle for the element id. The element is looked up when
// a task built from the handle starts, not now.
func (s *Stage) Element(id string) *Element {
	return &Element{stage: s, id: id}
}

// Animation describes one animate call.
type Animation struct {
	Target string
	// From optionally names explicit start tokens, matched to To by position.
	From     string
	To       string
	Duration float64
	// Easing defaults to interp.Default.
	Easing interp.Easing
}

// Animate builds a task that tweens every token in a.To on a.Target.
//
// Start values are resolved on the first step, so an animation placed late
// in a chain starts from whatever earlier steps left behind. A missing target
// or an unparseable token leaves its jobs out; the task still takes
// a.Duration so flow timing matches its static estimate.
func (s *Stage) Animate(a Animation) Task {
	return &animation{stage: s, spec: a}
}

func (s *Stage) apply(id string, p style.Property, value string) {
	if Suppressed() {
		return
	}
	s.sink.Apply(id, p, value)
}

// Element is a handle on one render target.
type Element struct {
	stage *Stage
	id    string
}

// ID returns the element identifier.
func (e *Element) ID() string { return e.id }

// Animate tweens the element to the tokens in to, starting from current values.
func (e *Element) Animate(to string, duration float64) Task {
	return e.stage.Animate(Animation{Target: e.id, To: to, Duration: duration})
}

// AnimateFrom tweens the element from explicit start tokens to the tokens in to.
func (e *Element) AnimateFrom(from, to string, duration float64) Task {
	return e.stage.Animate(Animation{Target: e.id, From: from, To: to, Duration: duration})
}

// Set snaps the element to the tokens in to on the next step.
func (e *Element) Set(to string) Task {
	return e.Animate(to, 0)
}

// Text reveals content one rune at a time over duration.
func (e *Element) Text(content string, duration float64) Task {
	runes := []rune(content)
	shown := -1
	return TweenWith(duration, interp.Linear, func(p float64) {
		n := int(math.Floor(p * float64(len(runes))))
		if p >= 1 {
			n = len(runes)
		}
		if n == shown {
			return
		}
		if _, ok := e.stage.env.Element(e.id); !ok {
			return
		}
		shown = n
		e.stage.apply(e.id, style.TextContent, string(runes[:n]))
	})
}

type job struct {
	desc  style.Descriptor
	start style.Quantity
	end   style.Quantity
}

type animation struct {
	stage *Stage
	spec  Animation
	jobs  []job
	tw    Task
}

func (a *animation) Next(dt float64) bool {
	if a.tw == nil {
		a.begin()
	}
	return a.tw.Next(dt)
}

func (a *animation) Leftover() float64 {
	if a.tw == nil {
		return 0
	}
	return leftover(a.tw)
}

func (a *animation) begin() {
	easing := a.spec.Easing
	if easing == nil {
		easing = interp.Default
	}
	a.tw = TweenWith(a.spec.Duration, easing, a.update)

	el, ok := a.stage.env.Element(a.spec.Target)
	if !ok {
		a.stage.logger.Debug("animate target missing", slog.String("target", a.spec.Target))
		return
	}

	from := style.Split(a.spec.From)
	gradient := false
	for i, token := range style.Split(a.spec.To) {
		d, ok := style.Parse(token)
		if !ok {
			a.stage.logger.Debug("token ignored",
				slog.String("target", a.spec.Target),
				slog.String("token", token))
			continue
		}

		var start style.Quantity
		if i < len(from) {
			start = resolve.Explicit(from[i], d)
		} else {
			start = resolve.Current(el, d)
		}
		a.jobs = append(a.jobs, job{desc: d, start: start, end: resolve.End(d)})
		gradient = gradient || d.Property.IsGradientStop()
	}

	if gradient && !hasGradient(el) {
		a.stage.apply(a.spec.Target, BackgroundImage, gradientImage)
	}
}

func (a *animation) update(eased float64) {
	for _, j := range a.jobs {
		q := interp.LerpQuantity(j.start, j.end, eased)
		p, v := style.Format(j.desc, q)
		a.stage.apply(a.spec.Target, p, v)
	}
}

func hasGradient(el resolve.Element) bool {
	for _, c := range el.Classes() {
		if strings.HasPrefix(c, "bg-gradient-") {
			return true
		}
	}
	if v, ok := el.Inline(BackgroundImage); ok && strings.Contains(v, "gradient") {
		return true
	}
	v, ok := el.Computed(BackgroundImage)
	return ok && strings.Contains(v, "gradient")
}
