// Package interp provides pure interpolation and easing functions.
//
// Scalars interpolate linearly. Colours interpolate in CIE LCh (HCL), where
// hue-bearing transitions stay saturated instead of passing through grey.
// Both endpoints are returned unchanged at t <= 0 and t >= 1.
package interp

import (
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor interpolates two colours in LCh space. Alpha interpolates
// linearly.
func LerpColor(from, to style.RGBA, t float64) style.RGBA {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	blended := from.Colorful().BlendHcl(to.Colorful(), t)
	return style.FromColorful(blended, Lerp(from.A, to.A, t))
}

// LerpQuantity interpolates two quantities of the same kind. Mixed kinds
// snap to the end value.
func LerpQuantity(from, to style.Quantity, t float64) style.Quantity {
	switch {
	case from.IsColor && to.IsColor:
		return style.ColorOfRGBA(LerpColor(from.Color, to.Color, t))
	case !from.IsColor && !to.IsColor:
		return style.ScalarOf(Lerp(from.Scalar, to.Scalar, t))
	default:
		return to
	}
}
