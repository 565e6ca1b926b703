// Package harness runs conformance scenarios against the live scheduler.
//
// A scenario declares a surface, a scene script flow and the host frames to
// deliver. The harness mounts the flow on a real scheduler driven by a
// manual frame source, records every lifecycle event and applied value in
// one ordered trace, then evaluates the scenario's assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: fade_in
//	description: "Title fades in over one second"
//	elements:
//	  - id: title
//	flow:
//	  - animate: {target: title, from: opacity-0, to: opacity-100, duration: 1}
//	frames:
//	  dt: [0.25, 0.25, 0.25, 0.25, 0.25]
//	seek: 0
//	assertions:
//	  - type: done_at
//	    frame: 3
//	  - type: final
//	    target: title
//	    property: opacity
//	    value: "1"
//
// Frames are either an explicit list of host frame intervals (dt) or a
// fixed rate (fps plus seconds). The harness always delivers one baseline
// frame before the listed ones; frame numbers in traces and assertions count
// the listed frames from 0. Frame -1 is the mount and seek phase.
//
// # Assertion Types
//
//   - done_at: the flow finishes on the given frame, or at the given
//     elapsed time, or never (never: true)
//   - final: a surface property holds the given value after the run, or is
//     unset (unset: true)
//   - applied_count: the number of applied values, optionally filtered by
//     target and property
//   - estimate: the static duration estimate, and optionally its leading
//     transition kind ("none" for no transition)
//
// # Deterministic Testing
//
// Frames are delivered one at a time and each Tick returns only after the
// scheduler has processed it, and trace events are numbered by a
// deterministic logical clock. The same scenario always produces the same
// trace, so traces can be compared against golden files.
package harness
