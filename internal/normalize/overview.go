package normalize

import (
	"math"
	"sort"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// CountRow is one category's thumbnail count.
type CountRow struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// Overview is the read model of the landing view.
type Overview struct {
	TotalThumbnails   int        `json:"total_thumbnails"`
	FeaturesExtracted int        `json:"features_extracted"`
	MissingViews      int        `json:"missing_views"`
	MissingCTR        int        `json:"missing_ctr"`
	ByGroup           []CountRow `json:"by_group"`
	ByYear            []CountRow `json:"by_year"`
}

// OverviewRows orders the group and year counts.  Percentages are of the
// dataset total.
func OverviewRows(order *category.Order, ov *client.OverviewStats) Overview {
	if ov == nil {
		return Overview{}
	}
	out := Overview{
		TotalThumbnails:   ov.TotalThumbnails,
		FeaturesExtracted: ov.FeaturesExtracted,
		MissingViews:      ov.MissingViews,
		MissingCTR:        ov.MissingCTR,
	}
	total := float64(ov.TotalThumbnails)
	for _, c := range category.SortKeys(order, ov.ByGroup) {
		out.ByGroup = append(out.ByGroup, CountRow{Category: c, Count: ov.ByGroup[c], Percent: numeric.Percent(float64(ov.ByGroup[c]), total)})
	}
	for _, c := range category.SortKeys(order, ov.ByYear) {
		out.ByYear = append(out.ByYear, CountRow{Category: c, Count: ov.ByYear[c], Percent: numeric.Percent(float64(ov.ByYear[c]), total)})
	}
	return out
}

// Progress is feature-extraction progress.
type Progress struct {
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// PipelineProgress derives progress, recomputing the percentage from the
// counts and clamping it to [0, 100].
func PipelineProgress(ps *client.PipelineStatus) Progress {
	if ps == nil {
		return Progress{}
	}
	p := Progress{Processed: ps.Processed, Total: ps.TotalThumbnails}
	if p.Total > 0 {
		p.Percent = numeric.Clamp(numeric.Percent(float64(p.Processed), float64(p.Total)), 0, 100)
	} else {
		p.Percent = numeric.Clamp(ps.CompletionPercentage, 0, 100)
	}
	return p
}

// CorrelationRow is one feature's correlation with the target metric.
type CorrelationRow struct {
	Feature     string  `json:"feature"`
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
	Significant bool    `json:"significant"`
}

// CorrelationRows sorts correlations by strength, |r| descending, then by
// feature name.
func CorrelationRows(c *client.Correlations) []CorrelationRow {
	if c == nil {
		return nil
	}
	out := make([]CorrelationRow, len(c.Correlations))
	for i, r := range c.Correlations {
		out[i] = CorrelationRow(r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Correlation), math.Abs(out[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

// ThumbnailRow is one thumbnail of the gallery, with its image URL resolved.
type ThumbnailRow struct {
	ID        int64    `json:"id"`
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Channel   string   `json:"channel"`
	Year      Cell     `json:"year"`
	Views     Cell     `json:"views"`
	CTR       Cell     `json:"ctr"`
	ClusterID *int     `json:"cluster_id,omitempty"`
	Extracted bool     `json:"features_extracted"`
	ImageURL  string   `json:"image_url"`
	Families  []string `json:"feature_families,omitempty"`
}

// ThumbnailRows converts a page of thumbnails.
func ThumbnailRows(items []client.Thumbnail, base, staticPrefix string) []ThumbnailRow {
	out := make([]ThumbnailRow, len(items))
	for i, t := range items {
		out[i] = ThumbnailDetail(t, base, staticPrefix)
	}
	return out
}

// ThumbnailDetail converts one thumbnail.
func ThumbnailDetail(t client.Thumbnail, base, staticPrefix string) ThumbnailRow {
	row := ThumbnailRow{
		ID:        t.ID,
		Category:  t.Group,
		ClusterID: t.ClusterID,
		Extracted: t.FeaturesExtracted,
		ImageURL:  ImageURL(base, staticPrefix, t.FilePath),
	}
	if t.Title != nil {
		row.Title = *t.Title
	}
	if t.Channel != nil {
		row.Channel = *t.Channel
	}
	if t.Year != nil {
		row.Year = Value(float64(*t.Year))
	}
	if t.Views != nil {
		row.Views = Value(float64(*t.Views))
	}
	if t.CTR != nil {
		row.CTR = Value(*t.CTR)
	}
	for fam := range t.Features {
		row.Families = append(row.Families, fam)
	}
	sort.Strings(row.Families)
	return row
}

// ImageURL maps a stored file path to its served URL.
func ImageURL(base, staticPrefix, filePath string) string {
	return client.ImageURL(base, staticPrefix, filePath)
}
