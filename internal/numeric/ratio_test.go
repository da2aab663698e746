package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToBaseline(t *testing.T) {
	assert.Equal(t, 0.5, NormalizeToBaseline(3, 6))
	for _, x := range []float64{0, 1, -7, 1e12} {
		r := NormalizeToBaseline(x, 0)
		assert.Equal(t, 0.0, r)
		assert.False(t, math.IsNaN(r) || math.IsInf(r, 0))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 25.0, Percent(1, 4))
	assert.Equal(t, 0.0, Percent(5, 0))
}

func TestAbsGap(t *testing.T) {
	assert.Equal(t, 2.0, AbsGap(1, 3))
	assert.Equal(t, 2.0, AbsGap(3, 1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.3, Clamp(0.3, 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, 6.0, Round(5.5, 0))
}
