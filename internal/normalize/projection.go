package normalize

import (
	"sort"
	"strconv"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// UnassignedClusterKey keys the partition of points without a cluster.
const UnassignedClusterKey = "na"

// ProjectionPoint is one thumbnail in the 2-D projection.
type ProjectionPoint struct {
	ID        int64   `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Category  string  `json:"category"`
	ClusterID *int    `json:"cluster_id,omitempty"`
	FilePath  string  `json:"file_path"`
	Title     *string `json:"title,omitempty"`
}

// Partition is one colour group of the scatter plot.  Points are shared with
// every other partition of the same snapshot.
type Partition struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Points []*ProjectionPoint `json:"points"`
}

// ProjectionPoints converts the service payload.
func ProjectionPoints(pts []client.ClusterPoint) []*ProjectionPoint {
	out := make([]*ProjectionPoint, len(pts))
	for i, p := range pts {
		out[i] = &ProjectionPoint{
			ID:        p.ID,
			X:         p.X,
			Y:         p.Y,
			Category:  p.Group,
			ClusterID: p.ClusterID,
			FilePath:  p.FilePath,
			Title:     p.Title,
		}
	}
	return out
}

// PartitionByCategory groups points by category in category order.
func PartitionByCategory(points []*ProjectionPoint, order *category.Order) []Partition {
	groups := map[string][]*ProjectionPoint{}
	for _, p := range points {
		groups[p.Category] = append(groups[p.Category], p)
	}
	out := make([]Partition, 0, len(groups))
	for _, cat := range category.SortKeys(order, groups) {
		out = append(out, Partition{Key: cat, Label: cat, Points: groups[cat]})
	}
	return out
}

// PartitionByCluster groups points by cluster id, ascending, with
// unassigned points last.
func PartitionByCluster(points []*ProjectionPoint) []Partition {
	groups := map[int][]*ProjectionPoint{}
	var unassigned []*ProjectionPoint
	for _, p := range points {
		if p.ClusterID == nil {
			unassigned = append(unassigned, p)
			continue
		}
		groups[*p.ClusterID] = append(groups[*p.ClusterID], p)
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Partition, 0, len(ids)+1)
	for _, id := range ids {
		out = append(out, Partition{
			Key:    strconv.Itoa(id),
			Label:  "Cluster " + strconv.Itoa(id),
			Points: groups[id],
		})
	}
	if len(unassigned) > 0 {
		out = append(out, Partition{Key: UnassignedClusterKey, Label: "Cluster N/A", Points: unassigned})
	}
	return out
}

// PointsDomain returns percentile-clipped x and y axis domains.
func PointsDomain(points []*ProjectionPoint, lowP, highP, padFraction float64) (x, y numeric.Domain) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return numeric.PercentileDomain(xs, lowP, highP, padFraction),
		numeric.PercentileDomain(ys, lowP, highP, padFraction)
}

// FindPoint returns the point with id.
func FindPoint(points []*ProjectionPoint, id int64) (*ProjectionPoint, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ClusterComposition is one cluster's size and per-category counts.
type ClusterComposition struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Count  int            `json:"count"`
	Shares []CategoryRow  `json:"shares"`
	Groups map[string]int `json:"groups"`
}

// ClusterCompositions orders a run's cluster stats by numeric id.  Each
// share row carries the category count and its percent of the cluster.
func ClusterCompositions(order *category.Order, result *client.ClusteringResult) []ClusterComposition {
	if result == nil {
		return nil
	}
	keys := make([]string, 0, len(result.ClusterStats))
	for k := range result.ClusterStats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if errA == nil || errB == nil {
			return errA == nil
		}
		return keys[i] < keys[j]
	})

	out := make([]ClusterComposition, 0, len(keys))
	for _, k := range keys {
		st := result.ClusterStats[k]
		cc := ClusterComposition{Key: k, Label: "Cluster " + k, Count: st.Count, Groups: st.Groups}
		for _, cat := range category.SortKeys(order, st.Groups) {
			row := NewCategoryRow(cat)
			row.Values["count"] = Value(float64(st.Groups[cat]))
			row.Values["percent"] = Value(numeric.Percent(float64(st.Groups[cat]), float64(st.Count)))
			cc.Shares = append(cc.Shares, row)
		}
		out = append(out, cc)
	}
	return out
}
