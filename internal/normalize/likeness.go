package normalize

import (
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
)

// Likeness score columns.
const (
	ColBinary     = "binary"
	ColSimilarity = "similarity"
	ColTitle      = "title"
	ColCombined   = "combined"
	ColWeighted   = "weighted"
)

// Declared score maxima.  These bound the axes, whatever the data holds.
// MaxEvolutionScore also scales the evolution heatmap.
const (
	MaxBinaryScore     = 6
	MaxTitleScore      = 8
	MaxCombinedScore   = 16
	MaxSimilarityScore = 100
	MaxEvolutionScore  = 8
)

// LikenessSource is one independently fetched score payload.  Field is the
// gjson path of the score inside each entry of the payload's "groups"
// object.
type LikenessSource struct {
	Name  string
	Raw   []byte
	Field string
}

// Standard sources, one per score kind.  A nil raw payload is skipped.
func BinarySource(raw []byte) LikenessSource {
	return LikenessSource{Name: ColBinary, Raw: raw, Field: "mean_score"}
}

func SimilaritySource(raw []byte) LikenessSource {
	return LikenessSource{Name: ColSimilarity, Raw: raw, Field: "mean_similarity"}
}

func TitleSource(raw []byte) LikenessSource {
	return LikenessSource{Name: ColTitle, Raw: raw, Field: "mean_score"}
}

func CombinedSource(raw []byte) LikenessSource {
	return LikenessSource{Name: ColCombined, Raw: raw, Field: "combined_mean"}
}

func WeightedSource(raw []byte) LikenessSource {
	return LikenessSource{Name: ColWeighted, Raw: raw, Field: "normalized_mean"}
}

// JoinLikeness joins score payloads by category.  Columns follow the source
// order; rows are the ordered union of categories over all sources.  A
// category missing from a source, or whose entry lacks the numeric field,
// gets an absent cell.
func JoinLikeness(order *category.Order, sources ...LikenessSource) Matrix {
	m := Matrix{}
	values := map[string]map[string]Cell{}
	var cats []string

	for _, src := range sources {
		if len(src.Raw) == 0 {
			continue
		}
		m.Columns = append(m.Columns, src.Name)
		gjson.GetBytes(src.Raw, "groups").ForEach(func(key, entry gjson.Result) bool {
			cat := key.String()
			if _, ok := values[cat]; !ok {
				values[cat] = map[string]Cell{}
				cats = append(cats, cat)
			}
			if f := entry.Get(src.Field); f.Type == gjson.Number {
				values[cat][src.Name] = Value(f.Float())
			}
			return true
		})
	}

	for _, cat := range order.Sort(cats) {
		row := NewCategoryRow(cat)
		for _, col := range m.Columns {
			row.Values[col] = values[cat][col]
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// LikenessYearRows extracts fields for every year category of a score
// payload, in category order.  Missing fields are absent.
func LikenessYearRows(order *category.Order, raw []byte, fields ...string) Matrix {
	m := Matrix{Columns: fields}
	entries := map[string]gjson.Result{}
	var years []string
	gjson.GetBytes(raw, "groups").ForEach(func(key, entry gjson.Result) bool {
		if cat := key.String(); category.IsYear(cat) {
			entries[cat] = entry
			years = append(years, cat)
		}
		return true
	})
	for _, y := range order.Sort(years) {
		row := NewCategoryRow(y)
		for _, f := range fields {
			if v := entries[y].Get(f); v.Type == gjson.Number {
				row.Values[f] = Value(v.Float())
			} else {
				row.Values[f] = Absent
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// ReferenceRow returns the named category's fields from a score payload.
func ReferenceRow(raw []byte, reference string, fields ...string) (CategoryRow, bool) {
	entry := gjson.GetBytes(raw, "groups."+gjson.Escape(reference))
	if !entry.Exists() {
		return CategoryRow{}, false
	}
	row := NewCategoryRow(reference)
	for _, f := range fields {
		if v := entry.Get(f); v.Type == gjson.Number {
			row.Values[f] = Value(v.Float())
		}
	}
	return row, true
}

// ScoreDistributionRows turns each year's score histogram into percentages
// of that year's count, one column per score 0..maxScore.  A maxScore ≤ 0
// means the payload's max_score.  A bucket missing from score_distribution
// had no thumbnails and counts 0.
func ScoreDistributionRows(order *category.Order, raw []byte, maxScore int) Matrix {
	if maxScore <= 0 {
		maxScore = int(gjson.GetBytes(raw, "max_score").Int())
	}
	if maxScore <= 0 {
		maxScore = MaxBinaryScore
	}
	m := Matrix{Columns: make([]string, maxScore+1)}
	for i := range m.Columns {
		m.Columns[i] = strconv.Itoa(i)
	}

	entries := map[string]gjson.Result{}
	var years []string
	gjson.GetBytes(raw, "groups").ForEach(func(key, entry gjson.Result) bool {
		if cat := key.String(); category.IsYear(cat) {
			entries[cat] = entry
			years = append(years, cat)
		}
		return true
	})

	for _, y := range order.Sort(years) {
		entry := entries[y]
		total := entry.Get("count").Float()
		dist := entry.Get("score_distribution")
		row := NewCategoryRow(y)
		for _, col := range m.Columns {
			row.Values[col] = Value(numeric.Percent(dist.Get(col).Float(), total))
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}
