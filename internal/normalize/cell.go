// Package normalize reshapes the statistics service payloads into the two
// canonical read models every chart and table is built from: one row per
// category with named values, and a category by sub-key matrix.
//
// Missing data is never zero.  A category or field absent from a payload
// becomes an absent Cell, rendered as Placeholder.
package normalize

import (
	"encoding/json"
	"strconv"
)

// Placeholder is shown for an absent value.
const Placeholder = "—"

// Cell is a value that may be absent.
type Cell struct {
	Value   float64
	Present bool
}

// Value returns a present Cell.
func Value(v float64) Cell { return Cell{Value: v, Present: true} }

// Absent is the missing-value Cell.
var Absent = Cell{}

// String formats the value with decimals places, or Placeholder.
func (c Cell) String(decimals int) string {
	if !c.Present {
		return Placeholder
	}
	return strconv.FormatFloat(c.Value, 'f', decimals, 64)
}

// Ptr returns nil for an absent cell.  Chart series use it to draw gaps.
func (c Cell) Ptr() *float64 {
	if !c.Present {
		return nil
	}
	v := c.Value
	return &v
}

// MarshalJSON encodes an absent cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON accepts a number or null.
func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Absent
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Value(v)
	return nil
}

// CategoryRow is one category with named values.
type CategoryRow struct {
	Category string          `json:"category"`
	Values   map[string]Cell `json:"values"`
}

// NewCategoryRow returns an empty row for category.
func NewCategoryRow(category string) CategoryRow {
	return CategoryRow{Category: category, Values: map[string]Cell{}}
}

// Get returns the named value, Absent when missing.
func (r CategoryRow) Get(column string) Cell {
	return r.Values[column]
}

// Matrix is an ordered set of rows sharing ordered columns.
type Matrix struct {
	Columns []string      `json:"columns"`
	Rows    []CategoryRow `json:"rows"`
}

// Row returns the row for category.
func (m Matrix) Row(category string) (CategoryRow, bool) {
	for _, r := range m.Rows {
		if r.Category == category {
			return r, true
		}
	}
	return CategoryRow{}, false
}

// Categories returns the row keys in order.
func (m Matrix) Categories() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Category
	}
	return out
}

// Column returns one column's cells in row order.
func (m Matrix) Column(column string) []Cell {
	out := make([]Cell, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Get(column)
	}
	return out
}

// PresentValues returns the present values of column.
func (m Matrix) PresentValues(column string) []float64 {
	var out []float64
	for _, c := range m.Column(column) {
		if c.Present {
			out = append(out, c.Value)
		}
	}
	return out
}
