// Package motion implements step-driven tasks and their combinators.
//
// A Task is an explicit resumable state object. The owner calls Next with the
// elapsed time since the previous call, and Next reports whether the task has
// finished. Nothing runs between two Next calls and no goroutines are
// involved, so the same task tree can be stepped by a real-time frame loop, by
// a fixed-step seek, or by an offline renderer.
//
// # Ownership
//
// A task is exclusively owned by whatever drives it. Passing a task to All,
// Chain or Delay transfers ownership. Once Next has returned true it must not
// be called again.
//
// # Leftover time
//
// Tasks that finish part-way through a step report the unused part through
// Leftover. Sequential combinators enter the next child with that remainder
// in the same step, so a chain lands on the same instant regardless of the
// step size used to reach it. This is what makes seek-by-replay line up with
// real-time playback.
//
// # Stage
//
// Stage is the registry a flow animates against: it resolves element ids
// through a resolve.Environment and writes serialized values to a Sink. Each
// mounted scene gets its own Stage, so concurrent previews do not share state.
//
// # Suppression
//
// Suppress turns off every Tween update process-wide while timing continues
// unchanged. Duration measurement uses it to run real flows without touching
// any sink.
package motion
