package style

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjust(t *testing.T) {
	assert.Equal(t, 48.0, Adjust(UnitPx, 12))
	assert.Equal(t, 0.75, Adjust(UnitRem, 3))
	assert.Equal(t, 0.5, Adjust(UnitPercent, 50))
	assert.Equal(t, 45.0, Adjust(UnitDeg, 45))
	assert.Equal(t, 0.1, Adjust(UnitEm, 0.1))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		token string
		value float64
		prop  Property
		want  string
	}{
		{"w-4", 16, Width, "16px"},
		{"leading-6", 1.5, LineHeight, "1.5rem"},
		{"tracking-wide", 0.025, LetterSpacing, "0.025em"},
		{"rotate-45", 45, Rotate, "45deg"},
		{"opacity-50", 0.5, Opacity, "0.5"},
		{"scale-90", 0.9, Scale, "0.9"},
		{"font-bold", 700, FontWeight, "700"},
		{"translate-x-4", 16, Translate, "16px 0"},
		{"-translate-y-4", -16, Translate, "0 -16px"},
		{"blur-md", 12, Filter, "blur(12px)"},
		{"brightness-150", 1.5, Filter, "brightness(1.5)"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			d, ok := Parse(tt.token)
			require.True(t, ok)
			prop, got := Format(d, ScalarOf(tt.value))
			assert.Equal(t, tt.prop, prop)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Colour(t *testing.T) {
	d, ok := Parse("bg-blue-500/50")
	require.True(t, ok)
	prop, got := Format(d, ColorOfRGBA(d.Color))
	assert.Equal(t, BackgroundColor, prop)
	assert.Equal(t, "rgba(59, 130, 246, 0.5)", got)
}

func TestFormat_NamedRadius(t *testing.T) {
	tests := map[string]string{
		"rounded-none": "0px",
		"rounded-sm":   "2px",
		"rounded":      "4px",
		"rounded-lg":   "8px",
		"rounded-xl":   "12px",
		"rounded-2xl":  "16px",
	}

	for token, want := range tests {
		t.Run(token, func(t *testing.T) {
			d, ok := Parse(token)
			require.True(t, ok)
			require.Equal(t, UnitPx, d.Unit)
			prop, got := Format(d, ScalarOf(Adjust(d.Unit, d.Value)))
			assert.Equal(t, BorderRadius, prop)
			assert.Equal(t, want, got)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
	assert.Equal(t, "0.0625", FormatNumber(0.0625))
	assert.Equal(t, "-12.5", FormatNumber(-12.5))
}
