// Package resolve finds the current value of a property on a render target.
//
// Lookups are layered. A value the engine applied earlier wins, so an
// interrupted animation resumes from where it visually is. Then the host's
// computed value is used, and finally a fixed per-property default. Gradient
// stops add one more layer between the two: the element's active "from-",
// "via-" or "to-" class, resolved as a background colour, because hosts often
// cannot report stop colours on their own.
//
// Nothing here fails. Unknown properties and unreadable values resolve to a
// neutral default (0 or transparent).
package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Element is the host's view of one render target.
type Element interface {
	// Inline returns the value the engine last applied to p.
	Inline(p style.Property) (string, bool)
	// Computed returns the environment's value for p.
	Computed(p style.Property) (string, bool)
	// Classes returns the style tokens currently active on the element.
	Classes() []string
}

// Environment looks up render targets by identifier.
type Environment interface {
	Element(id string) (Element, bool)
}

// Defaults is the last-resort value per scalar property.
var Defaults = map[style.Property]float64{
	style.Opacity:   1,
	style.Scale:     1,
	style.Rotate:    0,
	style.Translate: 0,
	style.Filter:    0,
}

var leadingFloat = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// ReadCurrent resolves the current value of d's property on the target id.
// ok is false when the target does not exist.
func ReadCurrent(env Environment, id string, d style.Descriptor) (style.Quantity, bool) {
	el, ok := env.Element(id)
	if !ok {
		return style.Quantity{}, false
	}
	return Current(el, d), true
}

// Current resolves the current value of d's property on el.
func Current(el Element, d style.Descriptor) style.Quantity {
	if d.Unit == style.UnitColor {
		return style.ColorOfRGBA(currentColor(el, d.Property))
	}
	return style.ScalarOf(currentScalar(el, d))
}

// Explicit resolves a start value named by a from-token for the property
// described by d.
func Explicit(fromToken string, d style.Descriptor) style.Quantity {
	if d.Unit == style.UnitColor {
		c, ok := style.ColorOf(fromToken)
		if !ok {
			c = style.Transparent
		}
		return style.ColorOfRGBA(c)
	}
	return style.ScalarOf(style.Adjust(d.Unit, style.Value(fromToken)))
}

// End returns the adjusted target value of d.
func End(d style.Descriptor) style.Quantity {
	if d.Unit == style.UnitColor {
		return style.ColorOfRGBA(d.Color)
	}
	return style.ScalarOf(style.Adjust(d.Unit, d.Value))
}

func currentScalar(el Element, d style.Descriptor) float64 {
	if s, ok := el.Inline(d.Property); ok {
		if v, ok := scalarFrom(d, s); ok {
			return v
		}
	}
	if s, ok := el.Computed(d.Property); ok {
		if v, ok := scalarFrom(d, s); ok {
			return v
		}
	}
	if d.FilterFunc() == "brightness" {
		return 1
	}
	return Defaults[d.Property]
}

// scalarFrom extracts the number d cares about from a serialized value.
func scalarFrom(d style.Descriptor, s string) (float64, bool) {
	s = strings.TrimSpace(s)

	switch d.Property {
	case style.Translate:
		parts := strings.Fields(s)
		if len(parts) == 0 {
			return 0, false
		}
		if d.Axis() == "x" {
			return parseLeading(parts[0])
		}
		if len(parts) < 2 {
			return 0, true
		}
		return parseLeading(parts[1])
	case style.Filter:
		fn := d.FilterFunc() + "("
		i := strings.Index(s, fn)
		if i < 0 {
			return 0, false
		}
		return parseLeading(s[i+len(fn):])
	}
	return parseLeading(s)
}

func parseLeading(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func currentColor(el Element, p style.Property) style.RGBA {
	if s, ok := el.Inline(p); ok {
		if c, ok := style.ParseColor(s); ok && c.A != 0 {
			return c
		}
	}

	if p.IsGradientStop() {
		if c, ok := stopFromClasses(el.Classes(), p); ok {
			return c
		}
		if s, ok := el.Computed(style.BackgroundColor); ok {
			if c, ok := style.ParseColor(s); ok {
				return c
			}
		}
		return style.Transparent
	}

	if s, ok := el.Computed(p); ok {
		if c, ok := style.ParseColor(s); ok {
			return c
		}
	}
	if p == style.Color {
		return style.Black
	}
	return style.Transparent
}

var stopPrefix = map[style.Property]string{
	style.GradientFrom: "from-",
	style.GradientVia:  "via-",
	style.GradientTo:   "to-",
}

func stopFromClasses(classes []string, p style.Property) (style.RGBA, bool) {
	prefix := stopPrefix[p]
	for _, class := range classes {
		if !strings.HasPrefix(class, prefix) {
			continue
		}
		c, ok := style.ColorOf(class)
		if ok && c.A != 0 {
			return c, true
		}
	}
	return style.RGBA{}, false
}
