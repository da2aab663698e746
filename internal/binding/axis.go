package binding

import (
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/numeric"
)

// ScoreKind names a bounded score scale.  ScoreEvolution is the yearly
// binary score, whose channel means and reference baseline can pass the
// binary maximum.
type ScoreKind string

const (
	ScoreBinary      ScoreKind = "binary"
	ScoreEvolution   ScoreKind = "evolution"
	ScoreTitle       ScoreKind = "title"
	ScoreCombined    ScoreKind = "combined"
	ScoreSimilarity  ScoreKind = "similarity"
	ScorePercent     ScoreKind = "percent"
	ScoreNormalized  ScoreKind = "normalized"
	ScoreCorrelation ScoreKind = "correlation"
)

// Axis is a value axis.  A Fixed axis pins Min and Max; otherwise the chart
// widget picks its own bounds.
type Axis struct {
	Name  string  `json:"name,omitempty"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Fixed bool    `json:"fixed"`
}

// AutoAxis lets the widget choose bounds.
func AutoAxis(name string) Axis { return Axis{Name: name} }

var scoreBounds = map[ScoreKind][2]float64{
	ScoreBinary:      {0, 6},
	ScoreEvolution:   {0, normalize.MaxEvolutionScore},
	ScoreTitle:       {0, 8},
	ScoreCombined:    {0, 16},
	ScoreSimilarity:  {0, 100},
	ScorePercent:     {0, 100},
	ScoreNormalized:  {0, 1},
	ScoreCorrelation: {-1, 1},
}

// ScoreAxis returns the declared bounds of kind.  The data never widens
// them.  Unknown kinds get an automatic axis.
func ScoreAxis(kind ScoreKind, name string) Axis {
	b, ok := scoreBounds[kind]
	if !ok {
		return AutoAxis(name)
	}
	return Axis{Name: name, Min: b[0], Max: b[1], Fixed: true}
}

// ProjectionAxis pins an axis to a percentile domain.
func ProjectionAxis(d numeric.Domain, name string) Axis {
	return Axis{Name: name, Min: d.Min, Max: d.Max, Fixed: true}
}
