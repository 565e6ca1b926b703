package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"transparent", "rgba(0, 0, 0, 0)"},
		{"#fff", "rgba(255, 255, 255, 1)"},
		{"#3b82f6", "rgba(59, 130, 246, 1)"},
		{"rgb(10, 20, 30)", "rgba(10, 20, 30, 1)"},
		{"rgba(10, 20, 30, 0.25)", "rgba(10, 20, 30, 0.25)"},
		{"rgb(10 20 30 / 50%)", "rgba(10, 20, 30, 0.5)"},
		{"red-500", "rgba(239, 68, 68, 1)"},
		{"white/75", "rgba(255, 255, 255, 0.75)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := ParseColor(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestParseColor_Rejects(t *testing.T) {
	for _, in := range []string{"", "center", "#zzz", "rgb(1,2)", "blue-500/x"} {
		_, ok := ParseColor(in)
		assert.False(t, ok, in)
	}
}

func TestColorOf(t *testing.T) {
	c, ok := ColorOf("via-emerald-500")
	require.True(t, ok)
	assert.Equal(t, "rgba(16, 185, 129, 1)", c.String())

	_, ok = ColorOf("w-4")
	assert.False(t, ok)
}
