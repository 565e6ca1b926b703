package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a colour quantity. R, G and B are in [0,1]; A is alpha in [0,1].
type RGBA struct {
	R, G, B, A float64
}

var (
	// Transparent is fully transparent black, the neutral colour default.
	Transparent = RGBA{}
	// Black is opaque black, the default text colour.
	Black = RGBA{A: 1}
)

// FromColorful builds an RGBA from a go-colorful colour and an alpha value.
func FromColorful(c colorful.Color, alpha float64) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: clamp01(alpha)}
}

// Colorful returns the colour without alpha.
func (c RGBA) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// String renders the colour as a CSS functional colour.
func (c RGBA) String() string {
	r, g, b := c.Colorful().Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, FormatNumber(clamp01(c.A)))
}

var rgbRe = regexp.MustCompile(`^rgba?\(([^)]+)\)$`)
var channelSplit = regexp.MustCompile(`[\s,/]+`)

// ParseColor parses "transparent", "#rgb", "#rrggbb", "rgb(...)", "rgba(...)"
// and palette names such as "blue-500" with an optional "/NN" alpha modifier.
func ParseColor(s string) (RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RGBA{}, false
	}
	if s == "transparent" {
		return Transparent, true
	}

	alpha := 1.0
	if i := strings.LastIndexByte(s, '/'); i > 0 && !strings.HasPrefix(s, "rgb") {
		pct, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil {
			return RGBA{}, false
		}
		alpha = clamp01(pct / 100)
		s = s[:i]
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return RGBA{}, false
		}
		return FromColorful(c, alpha), true
	}

	if m := rgbRe.FindStringSubmatch(s); m != nil {
		return parseRGBFunc(m[1])
	}

	if hex, ok := palette[s]; ok {
		c, err := colorful.Hex(hex)
		if err != nil {
			return RGBA{}, false
		}
		return FromColorful(c, alpha), true
	}
	return RGBA{}, false
}

func parseRGBFunc(body string) (RGBA, bool) {
	var parts []string
	for _, p := range channelSplit.Split(strings.TrimSpace(body), -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 {
		return RGBA{}, false
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return RGBA{}, false
		}
		ch[i] = v / 255
	}

	alpha := 1.0
	if len(parts) > 3 {
		a := strings.TrimSuffix(parts[3], "%")
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return RGBA{}, false
		}
		if a != parts[3] {
			v /= 100
		}
		alpha = v
	}
	return RGBA{R: clamp01(ch[0]), G: clamp01(ch[1]), B: clamp01(ch[2]), A: clamp01(alpha)}, true
}

// colorOf resolves the colour named by a colour token such as "bg-blue-500",
// "from-red-400/50" or "text-[#ff0000]".
func colorOf(e prefixEntry, token string) (RGBA, bool) {
	name := strings.TrimPrefix(token, "-")
	if payload, ok := arbitraryPayload(name); ok {
		return ParseColor(payload)
	}
	return ParseColor(strings.TrimPrefix(name, e.prefix))
}

// ColorOf resolves the colour of a colour token. Gradient stop tokens resolve
// as the equivalent background colour.
func ColorOf(token string) (RGBA, bool) {
	e, ok := lookup(token)
	if !ok || e.unit != UnitColor {
		return RGBA{}, false
	}
	return colorOf(e, token)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
