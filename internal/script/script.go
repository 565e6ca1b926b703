// Package script reads scene flows written as YAML instead of Go.
//
// A script is a list of steps run one after another:
//
//	elements:
//	  - id: title
//	flow:
//	  - fade: 0.5
//	  - animate: {target: title, from: opacity-0, to: opacity-100, duration: 1}
//	  - all:
//	      - text: {target: title, content: Hello, duration: 2}
//	      - delay: {seconds: 1, do: [{wait: 1}]}
//	  - repeat: {count: 3, do: [{set: {target: title, to: scale-110}}]}
//
// Every step holds exactly one kind. The same steps build live tasks (Scene)
// and the call tree the analyzer estimates (Node).
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/interp"
	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// Script is one YAML scene.
type Script struct {
	// Elements optionally declares the render targets the flow animates.
	Elements []sink.ElementSpec `yaml:"elements,omitempty"`
	Flow     []Step             `yaml:"flow"`
}

// Step is one flow step. Exactly one field is set.
type Step struct {
	Wait    *float64     `yaml:"wait,omitempty"`
	Fade    *float64     `yaml:"fade,omitempty"`
	Slide   *float64     `yaml:"slide,omitempty"`
	Zoom    *float64     `yaml:"zoom,omitempty"`
	All     []Step       `yaml:"all,omitempty"`
	Chain   []Step       `yaml:"chain,omitempty"`
	Delay   *DelayStep   `yaml:"delay,omitempty"`
	Repeat  *RepeatStep  `yaml:"repeat,omitempty"`
	Animate *AnimateStep `yaml:"animate,omitempty"`
	Text    *TextStep    `yaml:"text,omitempty"`
	Set     *SetStep     `yaml:"set,omitempty"`
}

// DelayStep waits Seconds, then runs Do as a chain.
type DelayStep struct {
	Seconds float64 `yaml:"seconds"`
	Do      []Step  `yaml:"do"`
}

// RepeatStep runs Do as a chain Count times.
type RepeatStep struct {
	Count int    `yaml:"count"`
	Do    []Step `yaml:"do"`
}

// AnimateStep tweens Target to the tokens in To.
type AnimateStep struct {
	Target   string  `yaml:"target"`
	From     string  `yaml:"from,omitempty"`
	To       string  `yaml:"to"`
	Duration float64 `yaml:"duration"`
	// Ease names an easing from interp.Names; empty means the default.
	Ease string `yaml:"ease,omitempty"`
}

// TextStep types Content into Target over Duration.
type TextStep struct {
	Target   string  `yaml:"target"`
	Content  string  `yaml:"content"`
	Duration float64 `yaml:"duration"`
}

// SetStep snaps Target to the tokens in To.
type SetStep struct {
	Target string `yaml:"target"`
	To     string `yaml:"to"`
}

// Parse decodes and validates a script. Unknown fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty script")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Estimate analyses script source, falling back on any failure.
func Estimate(src []byte) analyzer.Estimate {
	s, err := Parse(bytes.NewReader(src))
	if err != nil {
		return analyzer.Fallback(err.Error())
	}
	return analyzer.Analyze(s.Node())
}

// Validate checks that every step holds exactly one well-formed kind.
func (s *Script) Validate() error {
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow is required and must be non-empty")
	}
	for i, el := range s.Elements {
		if el.ID == "" {
			return fmt.Errorf("elements[%d]: id is required", i)
		}
	}
	return validateSteps("flow", s.Flow)
}

func validateSteps(path string, steps []Step) error {
	for i := range steps {
		if err := steps[i].validate(fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (st *Step) kinds() []string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(st.Wait != nil, "wait")
	add(st.Fade != nil, "fade")
	add(st.Slide != nil, "slide")
	add(st.Zoom != nil, "zoom")
	add(st.All != nil, "all")
	add(st.Chain != nil, "chain")
	add(st.Delay != nil, "delay")
	add(st.Repeat != nil, "repeat")
	add(st.Animate != nil, "animate")
	add(st.Text != nil, "text")
	add(st.Set != nil, "set")
	return kinds
}

func (st *Step) validate(path string) error {
	kinds := st.kinds()
	switch len(kinds) {
	case 0:
		return fmt.Errorf("%s: step has no kind", path)
	case 1:
	default:
		return fmt.Errorf("%s: step has several kinds %v", path, kinds)
	}

	switch {
	case st.All != nil:
		return validateSteps(path+".all", st.All)
	case st.Chain != nil:
		return validateSteps(path+".chain", st.Chain)
	case st.Delay != nil:
		return validateSteps(path+".delay.do", st.Delay.Do)
	case st.Repeat != nil:
		if st.Repeat.Count < 0 {
			return fmt.Errorf("%s.repeat: count must not be negative", path)
		}
		return validateSteps(path+".repeat.do", st.Repeat.Do)
	case st.Animate != nil:
		if st.Animate.Target == "" {
			return fmt.Errorf("%s.animate: target is required", path)
		}
		if _, ok := interp.Lookup(st.Animate.Ease); !ok {
			return fmt.Errorf("%s.animate: unknown ease %q", path, st.Animate.Ease)
		}
	case st.Text != nil:
		if st.Text.Target == "" {
			return fmt.Errorf("%s.text: target is required", path)
		}
	case st.Set != nil:
		if st.Set.Target == "" {
			return fmt.Errorf("%s.set: target is required", path)
		}
	}
	return nil
}

// Scene returns the script as a scene function.
func (s *Script) Scene() motion.SceneFunc {
	return func(stage *motion.Stage) motion.Task {
		return chain(stage, s.Flow)
	}
}

func chain(stage *motion.Stage, steps []Step) motion.Task {
	tasks := make([]motion.Task, len(steps))
	for i := range steps {
		tasks[i] = steps[i].task(stage)
	}
	return motion.Chain(tasks...)
}

func (st *Step) task(stage *motion.Stage) motion.Task {
	switch {
	case st.Wait != nil:
		return motion.WaitFor(*st.Wait)
	case st.Fade != nil:
		return motion.Fade(*st.Fade)
	case st.Slide != nil:
		return motion.Slide(*st.Slide)
	case st.Zoom != nil:
		return motion.Zoom(*st.Zoom)
	case st.All != nil:
		tasks := make([]motion.Task, len(st.All))
		for i := range st.All {
			tasks[i] = st.All[i].task(stage)
		}
		return motion.All(tasks...)
	case st.Chain != nil:
		return chain(stage, st.Chain)
	case st.Delay != nil:
		return motion.Delay(st.Delay.Seconds, chain(stage, st.Delay.Do))
	case st.Repeat != nil:
		do := st.Repeat.Do
		return motion.Repeat(st.Repeat.Count, func(int) motion.Task { return chain(stage, do) })
	case st.Animate != nil:
		a := st.Animate
		easing, _ := interp.Lookup(a.Ease)
		return stage.Animate(motion.Animation{
			Target:   a.Target,
			From:     a.From,
			To:       a.To,
			Duration: a.Duration,
			Easing:   easing,
		})
	case st.Text != nil:
		return stage.Element(st.Text.Target).Text(st.Text.Content, st.Text.Duration)
	case st.Set != nil:
		return stage.Element(st.Set.Target).Set(st.Set.To)
	}
	return motion.WaitFor(0)
}
