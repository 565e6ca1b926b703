package motion

import "math"

// Task is a resumable unit of work advanced by elapsed time.
type Task interface {
	// Next advances the task by dt seconds and reports whether it finished.
	Next(dt float64) bool
}

// Overshooter is implemented by tasks that can report how much of their final
// step they did not use.
type Overshooter interface {
	Leftover() float64
}

// Stopper is implemented by tasks that hold resources which must be released
// when the task is abandoned before it finishes.
type Stopper interface {
	Stop()
}

// TaskFunc adapts a step function to Task.
type TaskFunc func(dt float64) bool

// Next calls f(dt).
func (f TaskFunc) Next(dt float64) bool { return f(dt) }

// Flow builds a fresh root task each time it is called.
type Flow func() Task

// SceneFunc is a flow written against a Stage.
type SceneFunc func(s *Stage) Task

// Bind fixes the stage a scene animates, producing a Flow.
func (f SceneFunc) Bind(s *Stage) Flow {
	return func() Task { return f(s) }
}

// Stop releases t if it holds resources. Safe on any task.
func Stop(t Task) {
	if s, ok := t.(Stopper); ok {
		s.Stop()
	}
}

func leftover(t Task) float64 {
	o, ok := t.(Overshooter)
	if !ok {
		return 0
	}
	l := o.Leftover()
	if l < 0 || math.IsNaN(l) {
		return 0
	}
	return l
}

func clampStep(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	return dt
}
