package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileDomain_Empty(t *testing.T) {
	assert.Equal(t, Domain{Min: -5, Max: 5}, PercentileDomain(nil, 0.02, 0.98, 0.05))
	assert.Equal(t, DefaultDomain, PercentileDomain([]float64{math.NaN()}, 0.02, 0.98, 0.05))
}

func TestPercentileDomain_Identical(t *testing.T) {
	d := PercentileDomain([]float64{3, 3, 3, 3}, 0.02, 0.98, 0.05)
	assert.Equal(t, 2.5, d.Min)
	assert.Equal(t, 3.5, d.Max)
	assert.Greater(t, d.Width(), 0.0)
}

func TestPercentileDomain_ClipsOutliers(t *testing.T) {
	values := make([]float64, 0, 101)
	for i := 0; i < 100; i++ {
		values = append(values, float64(i))
	}
	values = append(values, 1e6)

	d := PercentileDomain(values, 0.02, 0.98, 0)
	// n=101: floor(2.02)=2, floor(98.98)=98
	assert.Equal(t, 2.0, d.Min)
	assert.Equal(t, 98.0, d.Max)
}

func TestPercentileDomain_Padding(t *testing.T) {
	d := PercentileDomain([]float64{0, 10}, 0, 1, 0.1)
	assert.InDelta(t, -1.0, d.Min, 1e-9)
	assert.InDelta(t, 11.0, d.Max, 1e-9)
}

func TestPercentileDomain_HighIndexClamped(t *testing.T) {
	d := PercentileDomain([]float64{4, 1, 2}, 0, 1, 0)
	assert.Equal(t, Domain{Min: 1, Max: 4}, d)
}

func TestPercentileDomain_DoesNotMutate(t *testing.T) {
	in := []float64{5, 1, 4, 2}
	PercentileDomain(in, 0.02, 0.98, 0.05)
	assert.Equal(t, []float64{5, 1, 4, 2}, in)
}

func TestPercentileDomain_MinLeMax(t *testing.T) {
	cases := [][]float64{
		{1}, {-1, -2}, {0.1, 0.2, 0.3}, {1e9, -1e9, 0}, {7, 7, 8},
	}
	for _, vs := range cases {
		d := PercentileDomain(vs, 0.02, 0.98, 0.05)
		assert.LessOrEqual(t, d.Min, d.Max, "%v", vs)
	}
	// swapped percentiles are normalised
	d := PercentileDomain([]float64{1, 2, 3, 4}, 0.98, 0.02, 0)
	assert.LessOrEqual(t, d.Min, d.Max)
}
