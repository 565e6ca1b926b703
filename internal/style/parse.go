package style

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Descriptor is a parsed style token.
type Descriptor struct {
	// Token is the original token, needed to tell translate axes and filter
	// functions apart.
	Token    string
	Property Property
	Unit     Unit

	// Value is the numeric value in spacing units. Zero for colour units.
	Value float64

	// Color is set for colour units.
	Color RGBA
}

// Quantity is a resolved value: a scalar or a colour.
type Quantity struct {
	Scalar  float64
	Color   RGBA
	IsColor bool
}

// ScalarOf wraps a number.
func ScalarOf(v float64) Quantity { return Quantity{Scalar: v} }

// ColorOfRGBA wraps a colour.
func ColorOfRGBA(c RGBA) Quantity { return Quantity{Color: c, IsColor: true} }

var (
	arbitraryRe = regexp.MustCompile(`^[a-z-]+-\[(.+)\]$`)
	numberRe    = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)(.*)$`)
	literalRe   = regexp.MustCompile(`-(\d+)$`)
)

// Parse converts a token into a descriptor. ok is false when the token names
// no known property, or when a colour token names no known colour. Callers
// treat a rejected token as a no-op.
func Parse(token string) (Descriptor, bool) {
	token = strings.TrimSpace(token)
	e, ok := lookup(token)
	if !ok {
		return Descriptor{}, false
	}

	d := Descriptor{Token: token, Property: e.property, Unit: e.unit}
	if e.unit == UnitColor {
		c, ok := colorOf(e, token)
		if !ok {
			return Descriptor{}, false
		}
		d.Color = c
		return d, true
	}

	d.Value = Value(token)
	return d, true
}

// Value returns the numeric value of a token in spacing units. Unmatched
// tokens are 0.
//
// Negation may appear before the prefix ("-translate-y-[20px]") or inside the
// brackets ("translate-y-[-20px]"); the two signs combine by exclusive or.
func Value(token string) float64 {
	if v, ok := named[token]; ok {
		return v
	}

	negative := strings.HasPrefix(token, "-")
	name := strings.TrimPrefix(token, "-")

	if payload, ok := arbitraryPayload(name); ok {
		payloadNegative := strings.HasPrefix(payload, "-")
		payload = strings.TrimPrefix(payload, "-")

		m := numberRe.FindStringSubmatch(payload)
		if m == nil {
			return 0
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		if negative != payloadNegative {
			v = -v
		}
		switch strings.TrimSpace(m[2]) {
		case "px":
			return v / 4
		case "rem":
			return v * 4
		default:
			return v
		}
	}

	if m := literalRe.FindStringSubmatch(name); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		if negative {
			return -float64(v)
		}
		return float64(v)
	}
	return 0
}

func arbitraryPayload(name string) (string, bool) {
	m := arbitraryRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Split breaks a descriptor string into canonical tokens.
func Split(descriptor string) []string {
	return strings.Fields(norm.NFC.String(descriptor))
}

// Axis returns "x" or "y" for translate tokens and "" otherwise.
func (d Descriptor) Axis() string {
	if d.Property != Translate {
		return ""
	}
	if strings.Contains(d.Token, "-x-") {
		return "x"
	}
	return "y"
}

// FilterFunc returns "brightness" or "blur" for filter tokens.
func (d Descriptor) FilterFunc() string {
	if d.Property != Filter {
		return ""
	}
	if strings.Contains(d.Token, "brightness") {
		return "brightness"
	}
	return "blur"
}
