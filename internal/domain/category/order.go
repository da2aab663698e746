// Package category models the cohorts every view is plotted against: the
// reference group, upload years and channels.
package category

import (
	"sort"
	"strconv"
)

// Category identifies a comparable cohort.
type Category = string

// Order is an explicit total order over categories.  Declared categories sort
// by declaration position; anything else sorts after them, lexically.
type Order struct {
	declared []string
	index    map[string]int
}

// NewOrder builds an Order from declared.  Duplicates keep their first
// position.
func NewOrder(declared []string) *Order {
	o := &Order{index: make(map[string]int, len(declared))}
	for _, c := range declared {
		if _, dup := o.index[c]; dup {
			continue
		}
		o.index[c] = len(o.declared)
		o.declared = append(o.declared, c)
	}
	return o
}

// Declared returns a copy of the declared categories in order.
func (o *Order) Declared() []string {
	return append([]string(nil), o.declared...)
}

// Index returns c's declared position.
func (o *Order) Index(c string) (int, bool) {
	i, ok := o.index[c]
	return i, ok
}

// Less reports whether a sorts before b.
func (o *Order) Less(a, b string) bool {
	ia, okA := o.index[a]
	ib, okB := o.index[b]
	switch {
	case okA && okB:
		return ia < ib
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// Sort returns a sorted, de-duplicated copy of cats.
func (o *Order) Sort(cats []string) []string {
	seen := make(map[string]bool, len(cats))
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return o.Less(out[i], out[j]) })
	return out
}

// SortKeys returns the keys of m in order.
func SortKeys[V any](o *Order, m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return o.Sort(keys)
}

// IsYear reports whether c looks like an upload year.
func IsYear(c string) bool {
	if len(c) != 4 {
		return false
	}
	_, err := strconv.Atoi(c)
	return err == nil
}

// Lexical sorts channel names, which have no declared order.  The input is
// not modified.
func Lexical(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
