package motion

import (
	"iter"
	"math"
)

type wait struct {
	duration float64
	elapsed  float64
}

// WaitFor finishes once seconds have elapsed. It never updates anything.
func WaitFor(seconds float64) Task {
	return &wait{duration: seconds}
}

func (w *wait) Next(dt float64) bool {
	w.elapsed += clampStep(dt)
	return w.elapsed >= w.duration
}

func (w *wait) Leftover() float64 {
	return w.elapsed - max(w.duration, 0)
}

type all struct {
	tasks []Task
	left  float64
}

// All steps every child with the same dt, in argument order, and finishes when
// the last child finishes.
func All(tasks ...Task) Task {
	return &all{tasks: checked("All", tasks)}
}

func (a *all) Next(dt float64) bool {
	dt = clampStep(dt)
	left := math.Inf(1)

	// Stable compaction: finished children drop out without disturbing the
	// order of the ones still running.
	n := 0
	for _, t := range a.tasks {
		if t.Next(dt) {
			left = min(left, leftover(t))
			continue
		}
		a.tasks[n] = t
		n++
	}
	clear(a.tasks[n:])
	a.tasks = a.tasks[:n]

	if n > 0 {
		return false
	}
	if math.IsInf(left, 1) {
		left = dt
	}
	a.left = left
	return true
}

func (a *all) Leftover() float64 { return a.left }

func (a *all) Stop() {
	for _, t := range a.tasks {
		Stop(t)
	}
	a.tasks = nil
}

type chain struct {
	tasks []Task
	i     int
	left  float64
}

// Chain runs children one after another. A child that finishes mid-step hands
// its leftover time to the next child in the same step.
func Chain(tasks ...Task) Task {
	return &chain{tasks: checked("Chain", tasks)}
}

func (c *chain) Next(dt float64) bool {
	dt = clampStep(dt)
	for c.i < len(c.tasks) {
		t := c.tasks[c.i]
		if !t.Next(dt) {
			return false
		}
		dt = leftover(t)
		c.tasks[c.i] = nil
		c.i++
	}
	c.left = dt
	return true
}

func (c *chain) Leftover() float64 { return c.left }

func (c *chain) Stop() {
	for ; c.i < len(c.tasks); c.i++ {
		Stop(c.tasks[c.i])
		c.tasks[c.i] = nil
	}
}

// Delay waits seconds, then runs task.
func Delay(seconds float64, task Task) Task {
	return Chain(WaitFor(seconds), task)
}

type sequence struct {
	seq  iter.Seq[Task]
	next func() (Task, bool)
	stop func()
	cur  Task
	left float64
}

// Sequence runs the tasks produced by seq one after another, like Chain, but
// pulls each task only when the previous one has finished. Script-style flows
// use it to interleave ordinary Go control flow with timed steps:
//
//	return motion.Sequence(func(yield func(motion.Task) bool) {
//		for i := 0; i < 3; i++ {
//			if !yield(dot.Animate("opacity-100", 0.2)) {
//				return
//			}
//		}
//	})
func Sequence(seq iter.Seq[Task]) Task {
	if seq == nil {
		panic("motion: Sequence: nil sequence")
	}
	return &sequence{seq: seq}
}

func (s *sequence) Next(dt float64) bool {
	dt = clampStep(dt)
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
	}
	for {
		if s.cur == nil {
			t, ok := s.next()
			if !ok {
				s.stop()
				s.left = dt
				return true
			}
			if t == nil {
				continue
			}
			s.cur = t
		}
		if !s.cur.Next(dt) {
			return false
		}
		dt = leftover(s.cur)
		s.cur = nil
	}
}

func (s *sequence) Leftover() float64 { return s.left }

func (s *sequence) Stop() {
	if s.cur != nil {
		Stop(s.cur)
		s.cur = nil
	}
	if s.stop != nil {
		s.stop()
	}
}

// Repeat runs body(0) through body(n-1) in order. Each iteration's task is
// built when the previous one finishes.
func Repeat(n int, body func(i int) Task) Task {
	if n < 0 {
		panic("motion: Repeat: negative count")
	}
	if body == nil {
		panic("motion: Repeat: nil body")
	}
	return Sequence(func(yield func(Task) bool) {
		for i := 0; i < n; i++ {
			if !yield(body(i)) {
				return
			}
		}
	})
}

func checked(name string, tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t == nil {
			panic("motion: " + name + ": nil task")
		}
		out[i] = t
	}
	return out
}
