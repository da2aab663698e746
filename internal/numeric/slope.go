package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Classification is the direction of a channel's trend relative to the
// reference group.
type Classification string

const (
	Converging Classification = "converging"
	Diverging  Classification = "diverging"
	Flat       Classification = "flat"
)

// ClassifySlope maps a fitted slope to a Classification: above epsilon is
// converging toward the reference, below -epsilon diverging, otherwise flat.
// The sign of epsilon is ignored.
func ClassifySlope(slope, epsilon float64) Classification {
	eps := math.Abs(epsilon)
	switch {
	case slope > eps:
		return Converging
	case slope < -eps:
		return Diverging
	default:
		return Flat
	}
}

// FitSlope returns the least-squares slope of ys against xs.  Fewer than two
// points, mismatched lengths or zero variance in xs give 0.
func FitSlope(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	if stat.Variance(xs, nil) == 0 {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}
