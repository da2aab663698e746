package binding

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thumblens/thumblens/internal/normalize"
)

// MetricKind selects tooltip and table precision.
type MetricKind string

const (
	KindScore       MetricKind = "score"
	KindPercent     MetricKind = "percent"
	KindSlope       MetricKind = "slope"
	KindRatio       MetricKind = "ratio"
	KindGap         MetricKind = "gap"
	KindCount       MetricKind = "count"
	KindCorrelation MetricKind = "correlation"
	KindBin         MetricKind = "bin"
)

var decimals = map[MetricKind]int{
	KindScore:       2,
	KindPercent:     1,
	KindSlope:       4,
	KindRatio:       3,
	KindGap:         4,
	KindCount:       0,
	KindCorrelation: 4,
	KindBin:         3,
}

// Decimals returns the precision of kind.  Unknown kinds use 2.
func Decimals(kind MetricKind) int {
	if d, ok := decimals[kind]; ok {
		return d
	}
	return 2
}

var printer = message.NewPrinter(language.English)

// Format renders v the way tooltips and tables show kind.
func Format(kind MetricKind, v float64) string {
	switch kind {
	case KindCount:
		return printer.Sprintf("%d", int64(math.Round(v)))
	case KindPercent:
		return printer.Sprintf("%.1f%%", v)
	case KindSlope:
		return printer.Sprintf("%+.4f pts/year", v)
	default:
		return printer.Sprintf("%.*f", Decimals(kind), v)
	}
}

// FormatCell renders c, or normalize.Placeholder when c is absent.
func FormatCell(kind MetricKind, c normalize.Cell) string {
	if !c.Present {
		return normalize.Placeholder
	}
	return Format(kind, c.Value)
}
