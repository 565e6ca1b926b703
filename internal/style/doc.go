// Package style parses compact style tokens into typed, unit-aware quantities.
//
// A style token is a "prefix-value" string such as "w-[50px]", "opacity-100",
// "-rotate-45" or "bg-blue-500/50". Parsing resolves the token to exactly one
// animatable property and unit kind, or rejects it. Rejected tokens are no-ops:
// callers skip them and carry on with the rest of the descriptor string.
//
// # Value scale
//
// Numeric values are kept in spacing units, where one unit is 4px or 0.25rem.
// Arbitrary pixel payloads are divided by 4 and rem payloads multiplied by 4 on
// the way in; Adjust converts back to the property's output unit when an
// animation job is built. Percent values stay as written ("opacity-50" is 50)
// and become ratios (0.5) after adjustment.
//
// # Serialization
//
// Format renders an adjusted quantity for the apply sink: "12px", "0.75rem",
// "45deg", bare numbers for ratios and unitless values, and "rgba(r, g, b, a)"
// for colours. Translate and filter need the originating token to pick an axis
// or a filter function.
package style
