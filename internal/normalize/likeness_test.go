package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	binaryJSON = `{"criteria":["a"],"max_score":6,"groups":{
		"2016":{"count":10,"mean_score":2.1,"pct_4plus":10,"pct_5plus":5,"pct_6":0,"score_distribution":{"0":1,"1":2,"2":3,"3":2,"4":1,"5":1}},
		"mrbeast":{"count":20,"mean_score":4.6,"pct_4plus":70,"pct_5plus":40,"pct_6":10,"score_distribution":{"4":6,"5":10,"6":4}},
		"2015":{"count":4,"mean_score":1.5,"pct_4plus":0,"score_distribution":{"1":2,"2":2}}}}`
	titleJSON = `{"max_score":8,"groups":{
		"2015":{"mean_score":3.0},"2016":{"mean_score":3.5},"mrbeast":{"mean_score":5.9}}}`
	combinedJSON = `{"max_score":16,"groups":{
		"2015":{"combined_mean":4.5},"mrbeast":{"combined_mean":10.5}}}`
)

func TestJoinLikeness_MissingCategoryIsPlaceholder(t *testing.T) {
	m := JoinLikeness(testOrder(),
		BinarySource([]byte(binaryJSON)),
		TitleSource([]byte(titleJSON)),
		CombinedSource([]byte(combinedJSON)),
	)
	assert.Equal(t, []string{ColBinary, ColTitle, ColCombined}, m.Columns)
	assert.Equal(t, []string{"mrbeast", "2015", "2016"}, m.Categories())

	row, ok := m.Row("2016")
	require.True(t, ok)
	assert.Equal(t, "—", row.Get(ColCombined).String(2))
	assert.False(t, row.Get(ColCombined).Present)
	assert.Equal(t, "3.50", row.Get(ColTitle).String(2))

	// The absent cell must not drag the column mean down.
	assert.Equal(t, []float64{10.5, 4.5}, m.PresentValues(ColCombined))
}

func TestJoinLikeness_ZeroIsPresent(t *testing.T) {
	m := JoinLikeness(testOrder(), CombinedSource([]byte(`{"groups":{"2016":{"combined_mean":0}}}`)))
	row, _ := m.Row("2016")
	assert.True(t, row.Get(ColCombined).Present)
	assert.Equal(t, "0.00", row.Get(ColCombined).String(2))
}

func TestJoinLikeness_MissingFieldAndNonNumeric(t *testing.T) {
	m := JoinLikeness(testOrder(), CombinedSource([]byte(`{"groups":{"2017":{},"2018":{"combined_mean":"n/a"}}}`)))
	for _, c := range []string{"2017", "2018"} {
		row, ok := m.Row(c)
		require.True(t, ok)
		assert.False(t, row.Get(ColCombined).Present, c)
	}
}

func TestJoinLikeness_SkipsEmptySources(t *testing.T) {
	m := JoinLikeness(testOrder(), BinarySource([]byte(binaryJSON)), WeightedSource(nil))
	assert.Equal(t, []string{ColBinary}, m.Columns)
}

func TestLikenessYearRows(t *testing.T) {
	m := LikenessYearRows(testOrder(), []byte(binaryJSON), "mean_score", "pct_5plus", "pct_6")
	assert.Equal(t, []string{"2015", "2016"}, m.Categories())
	row, _ := m.Row("2015")
	assert.Equal(t, Value(1.5), row.Get("mean_score"))
	assert.False(t, row.Get("pct_5plus").Present)
}

func TestReferenceRow(t *testing.T) {
	row, ok := ReferenceRow([]byte(binaryJSON), "mrbeast", "mean_score", "pct_6")
	require.True(t, ok)
	assert.Equal(t, 4.6, row.Get("mean_score").Value)
	_, ok = ReferenceRow([]byte(binaryJSON), "nobody", "mean_score")
	assert.False(t, ok)
}

func TestScoreDistributionRows(t *testing.T) {
	m := ScoreDistributionRows(testOrder(), []byte(binaryJSON), 0)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6"}, m.Columns)
	assert.Equal(t, []string{"2015", "2016"}, m.Categories())

	row, _ := m.Row("2016")
	assert.InDelta(t, 30.0, row.Get("2").Value, 1e-9)
	assert.Equal(t, Value(0), row.Get("6"))

	total := 0.0
	for _, c := range m.Columns {
		total += row.Get(c).Value
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestScoreDistributionRows_ExplicitMax(t *testing.T) {
	m := ScoreDistributionRows(testOrder(), []byte(titleJSON), 8)
	assert.Len(t, m.Columns, 9)
	row, _ := m.Row("2015")
	// no count: percentages fall back to 0
	assert.Equal(t, Value(0), row.Get("0"))
}
