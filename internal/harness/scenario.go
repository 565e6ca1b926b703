package harness

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/script"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Elements seed the surface the flow animates.
	Elements []sink.ElementSpec `yaml:"elements,omitempty"`

	// Flow is the scene script under test.
	Flow []script.Step `yaml:"flow"`

	// Frames are the host frames delivered after mounting.
	Frames Frames `yaml:"frames"`

	// Seek fast-forwards the flow before the first frame, in seconds.
	Seek float64 `yaml:"seek,omitempty"`

	// Assertions validate the trace, the final surface and the estimate.
	Assertions []Assertion `yaml:"assertions"`
}

// Frames lists host frame intervals either explicitly or as a fixed rate.
type Frames struct {
	DT      []float64 `yaml:"dt,omitempty"`
	FPS     int       `yaml:"fps,omitempty"`
	Seconds float64   `yaml:"seconds,omitempty"`
}

// Steps returns the frame intervals in delivery order.
func (f Frames) Steps() []float64 {
	if len(f.DT) > 0 {
		return f.DT
	}
	if f.FPS <= 0 {
		return nil
	}
	n := int(math.Round(float64(f.FPS) * f.Seconds))
	steps := make([]float64, n)
	for i := range steps {
		steps[i] = 1 / float64(f.FPS)
	}
	return steps
}

// Assertion validates one property of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "done_at": frame, time or never
	// - "final": target, property and value or unset
	// - "applied_count": count, optionally target and property
	// - "estimate": duration, optionally transition
	Type string `yaml:"type"`

	Frame *int64   `yaml:"frame,omitempty"`
	Time  *float64 `yaml:"time,omitempty"`
	Never bool     `yaml:"never,omitempty"`

	Target   string `yaml:"target,omitempty"`
	Property string `yaml:"property,omitempty"`
	Value    string `yaml:"value,omitempty"`
	Unset    bool   `yaml:"unset,omitempty"`

	Count *int `yaml:"count,omitempty"`

	Duration   *float64 `yaml:"duration,omitempty"`
	Transition string   `yaml:"transition,omitempty"`

	// Tolerance bounds time and duration comparisons. Defaults to
	// DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertDoneAt       = "done_at"
	AssertFinal        = "final"
	AssertAppliedCount = "applied_count"
	AssertEstimate     = "estimate"
)

// DefaultTolerance is the time comparison tolerance when none is given.
const DefaultTolerance = 1e-6

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	sc, err := ParseScenario(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// Script returns the scenario's flow as a scene script.
func (s *Scenario) Script() *script.Script {
	return &script.Script{Elements: s.Elements, Flow: s.Flow}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.Script().Validate(); err != nil {
		return err
	}

	if err := validateFrames(s.Frames); err != nil {
		return err
	}

	if s.Seek < 0 {
		return fmt.Errorf("seek must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateFrames(f Frames) error {
	rate := f.FPS != 0 || f.Seconds != 0
	switch {
	case len(f.DT) > 0 && rate:
		return fmt.Errorf("frames: use either dt or fps and seconds")
	case len(f.DT) > 0:
		for i, dt := range f.DT {
			if dt < 0 {
				return fmt.Errorf("frames.dt[%d]: must be non-negative", i)
			}
		}
	case f.FPS <= 0:
		return fmt.Errorf("frames: dt list or positive fps is required")
	case f.Seconds <= 0:
		return fmt.Errorf("frames: seconds must be positive")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertDoneAt:
		set := 0
		if a.Frame != nil {
			set++
		}
		if a.Time != nil {
			set++
		}
		if a.Never {
			set++
		}
		if set != 1 {
			return fmt.Errorf("assertions[%d]: done_at needs exactly one of frame, time or never", index)
		}
	case AssertFinal:
		if a.Target == "" || a.Property == "" {
			return fmt.Errorf("assertions[%d]: target and property are required for final", index)
		}
		if a.Unset && a.Value != "" {
			return fmt.Errorf("assertions[%d]: final takes value or unset, not both", index)
		}
	case AssertAppliedCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for applied_count", index)
		}
	case AssertEstimate:
		if a.Duration == nil {
			return fmt.Errorf("assertions[%d]: duration is required for estimate", index)
		}
		if a.Transition != "" && a.Transition != "none" && !motion.TransitionKind(a.Transition).Valid() {
			return fmt.Errorf("assertions[%d]: unknown transition %q", index, a.Transition)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
