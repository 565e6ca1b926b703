package style

import (
	"sort"
	"strings"
)

// Property is an animatable property key. Values match the names the apply
// sink receives.
type Property string

const (
	Width     Property = "width"
	Height    Property = "height"
	MinWidth  Property = "minWidth"
	MinHeight Property = "minHeight"
	MaxWidth  Property = "maxWidth"
	MaxHeight Property = "maxHeight"

	Margin        Property = "margin"
	MarginTop     Property = "marginTop"
	MarginBottom  Property = "marginBottom"
	MarginLeft    Property = "marginLeft"
	MarginRight   Property = "marginRight"
	Padding       Property = "padding"
	PaddingTop    Property = "paddingTop"
	PaddingBottom Property = "paddingBottom"
	PaddingLeft   Property = "paddingLeft"
	PaddingRight  Property = "paddingRight"

	Color         Property = "color"
	FontSize      Property = "fontSize"
	LetterSpacing Property = "letterSpacing"
	LineHeight    Property = "lineHeight"
	FontWeight    Property = "fontWeight"

	BorderWidth  Property = "borderWidth"
	BorderRadius Property = "borderRadius"

	BackgroundColor Property = "backgroundColor"
	GradientFrom    Property = "--tw-gradient-from"
	GradientVia     Property = "--tw-gradient-via"
	GradientTo      Property = "--tw-gradient-to"

	Rotate    Property = "rotate"
	Scale     Property = "scale"
	Translate Property = "translate"
	Opacity   Property = "opacity"
	Filter    Property = "filter"

	// TextContent is written by typewriter tasks; it never comes from a token.
	TextContent Property = "textContent"
)

// IsGradientStop reports whether p is one of the gradient stop properties.
func (p Property) IsGradientStop() bool {
	return p == GradientFrom || p == GradientVia || p == GradientTo
}

// Unit is the kind of quantity a property holds. It decides both the scale
// conversion in Adjust and the serialization in Format.
type Unit int

const (
	UnitNone Unit = iota
	UnitPx
	UnitRem
	UnitEm
	UnitDeg
	UnitPercent
	UnitColor
)

var unitNames = [...]string{
	UnitNone:    "none",
	UnitPx:      "px",
	UnitRem:     "rem",
	UnitEm:      "em",
	UnitDeg:     "deg",
	UnitPercent: "percent",
	UnitColor:   "color",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unknown"
	}
	return unitNames[u]
}

type prefixEntry struct {
	prefix   string
	property Property
	unit     Unit
}

// prefixes is sorted longest first at init so "min-w-" wins over "w-" and
// "translate-x-" over "to-".
var prefixes = []prefixEntry{
	{"w-", Width, UnitPx},
	{"h-", Height, UnitPx},
	{"min-w-", MinWidth, UnitPx},
	{"min-h-", MinHeight, UnitPx},
	{"max-w-", MaxWidth, UnitPx},
	{"max-h-", MaxHeight, UnitPx},

	{"m-", Margin, UnitPx},
	{"mt-", MarginTop, UnitPx},
	{"mb-", MarginBottom, UnitPx},
	{"ml-", MarginLeft, UnitPx},
	{"mr-", MarginRight, UnitPx},
	{"p-", Padding, UnitPx},
	{"pt-", PaddingTop, UnitPx},
	{"pb-", PaddingBottom, UnitPx},
	{"pl-", PaddingLeft, UnitPx},
	{"pr-", PaddingRight, UnitPx},

	{"text-", Color, UnitColor},
	{"tracking-", LetterSpacing, UnitEm},
	{"leading-", LineHeight, UnitRem},
	{"font-", FontWeight, UnitNone},

	{"border-", BorderWidth, UnitPx},
	{"rounded-", BorderRadius, UnitPx},

	{"bg-", BackgroundColor, UnitColor},
	{"from-", GradientFrom, UnitColor},
	{"via-", GradientVia, UnitColor},
	{"to-", GradientTo, UnitColor},

	{"rotate-", Rotate, UnitDeg},
	{"scale-", Scale, UnitPercent},
	{"translate-x-", Translate, UnitPx},
	{"translate-y-", Translate, UnitPx},

	{"opacity-", Opacity, UnitPercent},
	{"blur-", Filter, UnitPx},
	{"brightness-", Filter, UnitPercent},
}

func init() {
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i].prefix) > len(prefixes[j].prefix)
	})
}

// Prefixes returns every known token prefix, longest first.
func Prefixes() []string {
	out := make([]string, 0, len(prefixes)+2)
	for _, e := range prefixes {
		out = append(out, e.prefix)
	}
	return append(out, "rounded", "blur")
}

// Lookup maps a token to its property and unit. The leading negation sign is
// ignored. ok is false when no prefix matches.
func Lookup(token string) (Property, Unit, bool) {
	e, ok := lookup(token)
	return e.property, e.unit, ok
}

func lookup(token string) (prefixEntry, bool) {
	name := strings.TrimPrefix(token, "-")

	switch name {
	case "rounded":
		return prefixEntry{prefix: "rounded", property: BorderRadius, unit: UnitPx}, true
	case "blur":
		return prefixEntry{prefix: "blur", property: Filter, unit: UnitPx}, true
	}

	for _, e := range prefixes {
		if !strings.HasPrefix(name, e.prefix) {
			continue
		}
		if e.prefix == "text-" && isFontSizeToken(name) {
			return prefixEntry{prefix: e.prefix, property: FontSize, unit: UnitRem}, true
		}
		return e, true
	}
	return prefixEntry{}, false
}

// isFontSizeToken separates "text-xl" and "text-[2rem]" from colour tokens
// such as "text-white".
func isFontSizeToken(name string) bool {
	if _, ok := fontSizes[name]; ok {
		return true
	}
	payload, ok := arbitraryPayload(name)
	if !ok {
		return false
	}
	payload = strings.TrimPrefix(payload, "-")
	return payload != "" && (payload[0] == '.' || (payload[0] >= '0' && payload[0] <= '9'))
}
