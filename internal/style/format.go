package style

import (
	"math"
	"strconv"
)

// Adjust converts a value in spacing units to the unit the property is
// written in: px x4, rem x0.25, percent /100. Other units pass through.
func Adjust(u Unit, v float64) float64 {
	switch u {
	case UnitPx:
		return v * 4
	case UnitRem:
		return v * 0.25
	case UnitPercent:
		return v / 100
	default:
		return v
	}
}

// Format serializes an adjusted quantity for the apply sink. It returns the
// property to write, which is the descriptor's property in every case.
func Format(d Descriptor, q Quantity) (Property, string) {
	if d.Unit == UnitColor || q.IsColor {
		return d.Property, q.Color.String()
	}

	v := q.Scalar
	switch d.Property {
	case Translate:
		s := FormatNumber(v) + "px"
		if d.Axis() == "x" {
			return Translate, s + " 0"
		}
		return Translate, "0 " + s
	case Filter:
		if d.FilterFunc() == "brightness" {
			return Filter, "brightness(" + FormatNumber(v) + ")"
		}
		return Filter, "blur(" + FormatNumber(v) + "px)"
	}

	switch d.Unit {
	case UnitPx:
		return d.Property, FormatNumber(v) + "px"
	case UnitRem:
		return d.Property, FormatNumber(v) + "rem"
	case UnitEm:
		return d.Property, FormatNumber(v) + "em"
	case UnitDeg:
		return d.Property, FormatNumber(v) + "deg"
	default:
		return d.Property, FormatNumber(v)
	}
}

// FormatNumber renders v with the shortest representation that round-trips.
// Negative zero renders as "0".
func FormatNumber(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
