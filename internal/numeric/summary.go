package numeric

import (
	"github.com/montanaflynn/stats"
)

// Summary is the descriptive statistics block shown beside a distribution.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes a Summary.  Empty input yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(values)
	s := Summary{Count: len(values)}
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.Std, _ = data.StandardDeviationSample()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Q25, _ = data.Percentile(25)
	s.Q75, _ = data.Percentile(75)
	return s
}

// Mean is the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
