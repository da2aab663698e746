package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Heat anchors: blue for low scores, red for high ones.
var (
	DefaultHeatLow  = RGB{R: 59, G: 130, B: 246}
	DefaultHeatHigh = RGB{R: 220, G: 38, B: 38}
)

// Hex renders the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CSS renders the colour as rgb(r,g,b).
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb (the leading # is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("numeric: colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("numeric: colour %q is not #rrggbb: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HeatColor interpolates each channel linearly between low and high using
// t = clamp(score/maxScore, 0, 1), rounding to the nearest integer.  A
// non-positive maxScore gives the low anchor.
func HeatColor(score, maxScore float64, low, high RGB) RGB {
	t := 0.0
	if maxScore > 0 {
		t = Clamp(score/maxScore, 0, 1)
	}
	return RGB{
		R: lerpChannel(low.R, high.R, t),
		G: lerpChannel(low.G, high.G, t),
		B: lerpChannel(low.B, high.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}
