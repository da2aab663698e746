package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatColor_Anchors(t *testing.T) {
	assert.Equal(t, DefaultHeatLow, HeatColor(0, 8, DefaultHeatLow, DefaultHeatHigh))
	assert.Equal(t, DefaultHeatHigh, HeatColor(8, 8, DefaultHeatLow, DefaultHeatHigh))
	assert.Equal(t, DefaultHeatHigh, HeatColor(12, 8, DefaultHeatLow, DefaultHeatHigh))
	assert.Equal(t, DefaultHeatLow, HeatColor(-3, 8, DefaultHeatLow, DefaultHeatHigh))
	assert.Equal(t, DefaultHeatLow, HeatColor(5, 0, DefaultHeatLow, DefaultHeatHigh))
}

func TestHeatColor_Midpoint(t *testing.T) {
	c := HeatColor(4, 8, DefaultHeatLow, DefaultHeatHigh)
	// 59+0.5*161=139.5, 130-46=84, 246-104=142
	assert.Equal(t, RGB{R: 140, G: 84, B: 142}, c)
}

func TestHeatColor_Monotonic(t *testing.T) {
	prev := HeatColor(0, 16, DefaultHeatLow, DefaultHeatHigh)
	for s := 0.25; s <= 16; s += 0.25 {
		c := HeatColor(s, 16, DefaultHeatLow, DefaultHeatHigh)
		assert.GreaterOrEqual(t, c.R, prev.R)
		assert.LessOrEqual(t, c.G, prev.G)
		assert.LessOrEqual(t, c.B, prev.B)
		prev = c
	}
}

func TestRGB_Format(t *testing.T) {
	assert.Equal(t, "#3b82f6", DefaultHeatLow.Hex())
	assert.Equal(t, "rgb(220,38,38)", DefaultHeatHigh.CSS())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#dc2626")
	require.NoError(t, err)
	assert.Equal(t, DefaultHeatHigh, c)

	c, err = ParseHex("3B82F6")
	require.NoError(t, err)
	assert.Equal(t, DefaultHeatLow, c)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseHex("nope") })
}
