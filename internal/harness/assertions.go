package harness

import (
	"fmt"
	"math"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against res and returns the
// failure messages, prefixed with the assertion index.
func EvaluateAssertions(res *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(res, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(res *Result, a Assertion) error {
	switch a.Type {
	case AssertDoneAt:
		return assertDoneAt(res, a)
	case AssertFinal:
		return assertFinal(res, a)
	case AssertAppliedCount:
		return assertAppliedCount(res, a)
	case AssertEstimate:
		return assertEstimate(res, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func tolerance(a Assertion) float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return DefaultTolerance
}

func describeDone(res *Result) string {
	if res.DoneAt == nil {
		return fmt.Sprintf("not finished after %d frames (elapsed %g)", res.Frames, res.Elapsed)
	}
	return fmt.Sprintf("finished on frame %d (elapsed %g)", *res.DoneAt, res.Elapsed)
}

// assertDoneAt checks when the flow finished.
func assertDoneAt(res *Result, a Assertion) error {
	fail := func(expected string) error {
		return &AssertionError{Type: AssertDoneAt, Expected: expected, Actual: describeDone(res)}
	}

	switch {
	case a.Never:
		if res.DoneAt != nil {
			return fail("flow never finishes")
		}
	case a.Frame != nil:
		if res.DoneAt == nil || *res.DoneAt != *a.Frame {
			return fail(fmt.Sprintf("finished on frame %d", *a.Frame))
		}
	case a.Time != nil:
		if res.DoneAt == nil || math.Abs(res.Elapsed-*a.Time) > tolerance(a) {
			return fail(fmt.Sprintf("finished at elapsed %g", *a.Time))
		}
	}
	return nil
}

// assertFinal checks one property of the final surface.
func assertFinal(res *Result, a Assertion) error {
	got, ok := res.Final[a.Target][a.Property]
	actual := fmt.Sprintf("%q", got)
	if !ok {
		actual = "unset"
	}

	if a.Unset {
		if ok {
			return &AssertionError{Type: AssertFinal, Expected: fmt.Sprintf("%s.%s unset", a.Target, a.Property), Actual: actual}
		}
		return nil
	}
	if !ok || got != a.Value {
		return &AssertionError{Type: AssertFinal, Expected: fmt.Sprintf("%s.%s = %q", a.Target, a.Property, a.Value), Actual: actual}
	}
	return nil
}

// assertAppliedCount checks how many values were applied.
func assertAppliedCount(res *Result, a Assertion) error {
	n := len(res.Applied(a.Target, a.Property))
	if n != *a.Count {
		scope := "all targets"
		if a.Target != "" || a.Property != "" {
			scope = strings.Trim(a.Target+"."+a.Property, ".")
		}
		return &AssertionError{
			Type:     AssertAppliedCount,
			Expected: fmt.Sprintf("%d values applied to %s", *a.Count, scope),
			Actual:   fmt.Sprintf("%d", n),
		}
	}
	return nil
}

// assertEstimate checks the static duration estimate.
func assertEstimate(res *Result, a Assertion) error {
	est := res.Estimate
	if math.Abs(est.Duration-*a.Duration) > tolerance(a) {
		return &AssertionError{
			Type:     AssertEstimate,
			Expected: fmt.Sprintf("duration %g", *a.Duration),
			Actual:   fmt.Sprintf("duration %g", est.Duration),
		}
	}

	if a.Transition == "" {
		return nil
	}
	got := "none"
	if est.Transition != nil {
		got = string(est.Transition.Kind)
	}
	if got != a.Transition {
		return &AssertionError{
			Type:     AssertEstimate,
			Expected: "transition " + a.Transition,
			Actual:   "transition " + got,
		}
	}
	return nil
}
