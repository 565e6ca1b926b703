package motion

import (
	"sync"
	"sync/atomic"

	"github.com/Nareshtt/motion-dom-canvas/internal/interp"
)

var suppressed atomic.Int32

// Suppress disables Tween updates process-wide until the returned function is
// called. Calls nest.
func Suppress() (restore func()) {
	suppressed.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { suppressed.Add(-1) })
	}
}

// Suppressed reports whether updates are currently disabled.
func Suppressed() bool {
	return suppressed.Load() > 0
}

type tween struct {
	duration float64
	elapsed  float64
	ease     interp.Easing
	update   func(progress float64)
}

// Tween calls update with eased progress on every step until duration has
// elapsed, then with 1 exactly once. A non-positive duration snaps to 1 on
// the first step.
func Tween(duration float64, update func(progress float64)) Task {
	return TweenWith(duration, interp.Default, update)
}

// TweenWith is Tween with an explicit easing. A nil easing is linear.
func TweenWith(duration float64, easing interp.Easing, update func(progress float64)) Task {
	if update == nil {
		panic("motion: Tween: nil update")
	}
	if easing == nil {
		easing = interp.Linear
	}
	return &tween{duration: duration, ease: easing, update: update}
}

func (tw *tween) Next(dt float64) bool {
	tw.elapsed += clampStep(dt)
	if tw.elapsed < tw.duration {
		tw.emit(tw.ease(min(tw.elapsed/tw.duration, 1)))
		return false
	}
	tw.emit(1)
	return true
}

func (tw *tween) Leftover() float64 {
	return tw.elapsed - max(tw.duration, 0)
}

func (tw *tween) emit(progress float64) {
	if Suppressed() {
		return
	}
	tw.update(progress)
}
