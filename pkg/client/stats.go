package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Histogram bin count limits accepted by /stats/distributions.
const (
	MinBins = 5
	MaxBins = 100
)

// Endpoint paths.
const (
	PathOverview         = "/stats/overview"
	PathDistributions    = "/stats/distributions"
	PathCompare          = "/stats/compare"
	PathCorrelations     = "/stats/correlations"
	PathLikeness         = "/stats/mrbeast-likeness"
	PathSimilarity       = "/stats/mrbeast-similarity"
	PathTitleLikeness    = "/stats/title-likeness"
	PathCombinedLikeness = "/stats/combined-likeness"
	PathWeightedLikeness = "/stats/weighted-likeness"
	PathConvergenceTests = "/stats/convergence-tests"
	PathChannelEvolution = "/stats/channel-evolution"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// OverviewStats is the dataset overview.
type OverviewStats struct {
	TotalThumbnails   int            `json:"total_thumbnails"`
	ByGroup           map[string]int `json:"by_group"`
	ByYear            map[string]int `json:"by_year"`
	FeaturesExtracted int            `json:"features_extracted"`
	MissingViews      int            `json:"missing_views"`
	MissingCTR        int            `json:"missing_ctr"`
}

// HistogramBin is one bucket of a distribution histogram.
type HistogramBin struct {
	BinStart float64 `json:"bin_start"`
	BinEnd   float64 `json:"bin_end"`
	Count    int     `json:"count"`
}

// SummaryStats are the descriptive statistics of one distribution.
type SummaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Distribution is one feature's distribution, optionally for one group.
type Distribution struct {
	Feature   string         `json:"feature"`
	Group     *string        `json:"group"`
	Values    []float64      `json:"values"`
	Histogram []HistogramBin `json:"histogram"`
	Stats     SummaryStats   `json:"stats"`
}

// GroupSummary is one group's entry in CompareStats.
type GroupSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// CompareStats summarises one feature across every group.
type CompareStats struct {
	Feature string                  `json:"feature"`
	Groups  map[string]GroupSummary `json:"groups"`
}

// Correlation is one feature's correlation with the target metric.
type Correlation struct {
	Feature     string  `json:"feature"`
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	SampleSize  int     `json:"sample_size"`
	Significant bool    `json:"significant"`
}

// Correlations is the /stats/correlations payload.
type Correlations struct {
	Target       string        `json:"target"`
	TotalSamples int           `json:"total_samples"`
	Correlations []Correlation `json:"correlations"`
}

// LikenessGroup is one category of the binary likeness score (0-6).
type LikenessGroup struct {
	Count             int                `json:"count"`
	MeanScore         float64            `json:"mean_score"`
	MedianScore       float64            `json:"median_score"`
	Pct4Plus          float64            `json:"pct_4plus"`
	Pct5Plus          float64            `json:"pct_5plus"`
	Pct6              float64            `json:"pct_6"`
	ScoreDistribution map[string]float64 `json:"score_distribution"`
}

// Likeness is the binary likeness payload.
type Likeness struct {
	Criteria []string                 `json:"criteria"`
	MaxScore float64                  `json:"max_score"`
	Groups   map[string]LikenessGroup `json:"groups"`
}

// SimilarityGroup is one category's continuous similarity (0-100).
type SimilarityGroup struct {
	Count            int     `json:"count"`
	MeanSimilarity   float64 `json:"mean_similarity"`
	MedianSimilarity float64 `json:"median_similarity"`
	StdSimilarity    float64 `json:"std_similarity"`
}

// Similarity is the continuous similarity payload.  FeatureTrends maps
// feature name to year to mean value.
type Similarity struct {
	FeatureNames  []string                      `json:"feature_names"`
	Centroid      map[string]float64            `json:"mrbeast_centroid"`
	Groups        map[string]SimilarityGroup    `json:"groups"`
	FeatureTrends map[string]map[string]float64 `json:"feature_trends"`
}

// TitleLikenessGroup is one category of the title score (0-8).
type TitleLikenessGroup struct {
	Count             int                `json:"count"`
	MeanScore         float64            `json:"mean_score"`
	MedianScore       float64            `json:"median_score"`
	Pct4Plus          float64            `json:"pct_4plus"`
	Pct5Plus          float64            `json:"pct_5plus"`
	Pct6Plus          float64            `json:"pct_6plus"`
	Pct7Plus          float64            `json:"pct_7plus"`
	Pct8              float64            `json:"pct_8"`
	ScoreDistribution map[string]float64 `json:"score_distribution"`
}

// TitleLikeness is the title score payload.
type TitleLikeness struct {
	Criteria []string                      `json:"criteria"`
	MaxScore float64                       `json:"max_score"`
	Groups   map[string]TitleLikenessGroup `json:"groups"`
}

// CombinedGroup is one category of the combined score (0-16).
type CombinedGroup struct {
	Count             int     `json:"count"`
	ThumbnailMean     float64 `json:"thumbnail_mean"`
	TitleMean         float64 `json:"title_mean"`
	CombinedMean      float64 `json:"combined_mean"`
	CombinedMedian    float64 `json:"combined_median"`
	CombinedPct8Plus  float64 `json:"combined_pct_8plus"`
	CombinedPct10Plus float64 `json:"combined_pct_10plus"`
	CombinedPct12Plus float64 `json:"combined_pct_12plus"`
}

// CombinedLikeness is the combined score payload.
type CombinedLikeness struct {
	MaxScore float64                  `json:"max_score"`
	Groups   map[string]CombinedGroup `json:"groups"`
}

// WeightedGroup is one category of the weighted likeness score.
type WeightedGroup struct {
	Count          int     `json:"count"`
	MeanScore      float64 `json:"mean_score"`
	MedianScore    float64 `json:"median_score"`
	NormalizedMean float64 `json:"normalized_mean"`
}

// WeightedLikeness is the weighted likeness payload.
type WeightedLikeness struct {
	Weights          map[string]float64       `json:"weights"`
	MaxPossibleScore float64                  `json:"max_possible_score"`
	Groups           map[string]WeightedGroup `json:"groups"`
}

// TTest is Welch's t-test of early against late years.
type TTest struct {
	TStatistic  float64 `json:"t_statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	EarlyMean   float64 `json:"early_mean"`
	LateMean    float64 `json:"late_mean"`
	EarlyN      int     `json:"early_n"`
	LateN       int     `json:"late_n"`
}

// CohensD is the effect size of the t-test.
type CohensD struct {
	D              float64 `json:"d"`
	Interpretation string  `json:"interpretation"`
}

// ANOVA is the one-way ANOVA across years.
type ANOVA struct {
	FStatistic  float64  `json:"f_statistic"`
	PValue      float64  `json:"p_value"`
	Significant bool     `json:"significant"`
	NumGroups   int      `json:"num_groups"`
	Groups      []string `json:"groups"`
}

// LinearRegression is score regressed on year.
type LinearRegression struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	StdErr      float64 `json:"std_err"`
	N           int     `json:"n"`
}

// YearCI is one year's mean with its confidence interval.
type YearCI struct {
	Mean   float64 `json:"mean"`
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
	N      int     `json:"n"`
	SEM    float64 `json:"sem"`
}

// ConvergenceTests is the /stats/convergence-tests payload.  Every test is
// optional.
type ConvergenceTests struct {
	TTest                   *TTest            `json:"ttest,omitempty"`
	CohensD                 *CohensD          `json:"cohens_d,omitempty"`
	ANOVA                   *ANOVA            `json:"anova,omitempty"`
	LinearRegression        *LinearRegression `json:"linear_regression,omitempty"`
	YearConfidenceIntervals map[string]YearCI `json:"year_confidence_intervals"`
}

// ChannelYear is one channel's score in one year.
type ChannelYear struct {
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"`
	Pct4Plus  float64 `json:"pct_4plus"`
}

// ChannelSeries is one channel's per-year scores.
type ChannelSeries struct {
	NumYears int                    `json:"num_years"`
	Years    map[string]ChannelYear `json:"years"`
}

// ChannelTrend is the service's fitted trend for one channel.
type ChannelTrend struct {
	Channel    string  `json:"channel"`
	Slope      float64 `json:"slope"`
	StartScore float64 `json:"start_score"`
	EndScore   float64 `json:"end_score"`
	StartYear  string  `json:"start_year"`
	EndYear    string  `json:"end_year"`
	NumYears   int     `json:"num_years"`
}

// EvolutionSummary counts channels per trend direction.
type EvolutionSummary struct {
	Converging int     `json:"converging_toward_mrbeast"`
	Diverging  int     `json:"diverging_from_mrbeast"`
	Flat       int     `json:"flat"`
	AvgSlope   float64 `json:"avg_slope"`

	AvgTitleSlope float64 `json:"avg_title_slope"`
}

// ChannelEvolution is the /stats/channel-evolution payload.  Trends arrive
// sorted by slope, steepest convergence first.
type ChannelEvolution struct {
	TotalChannels int                      `json:"total_channels"`
	Channels      map[string]ChannelSeries `json:"channels"`
	Trends        []ChannelTrend           `json:"trends"`
	Summary       EvolutionSummary         `json:"summary"`
}

// ---------------------------------------------------------------------------
// StatsClient
// ---------------------------------------------------------------------------

// StatsClient wraps the /stats endpoints.
type StatsClient struct {
	client *Client
}

// Overview returns the dataset overview.
// GET /stats/overview
func (sc *StatsClient) Overview(ctx context.Context) (*OverviewStats, error) {
	var resp OverviewStats
	if err := sc.client.get(ctx, PathOverview, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Distribution returns one feature's histogram and summary.  An empty group
// means the whole dataset.
// GET /stats/distributions?feature={feature}&bins={bins}&group={group}
func (sc *StatsClient) Distribution(ctx context.Context, feature, group string, bins int) (*Distribution, error) {
	if feature == "" {
		return nil, invalidArg("feature is required")
	}
	if bins < MinBins || bins > MaxBins {
		return nil, invalidArg("bins must be between 5 and 100")
	}
	q := url.Values{}
	q.Set("feature", feature)
	q.Set("bins", strconv.Itoa(bins))
	if group != "" {
		q.Set("group", group)
	}
	var resp Distribution
	if err := sc.client.get(ctx, PathDistributions, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare returns per-group summary statistics for feature.
// GET /stats/compare?feature={feature}
func (sc *StatsClient) Compare(ctx context.Context, feature string) (*CompareStats, error) {
	if feature == "" {
		return nil, invalidArg("feature is required")
	}
	q := url.Values{}
	q.Set("feature", feature)
	var resp CompareStats
	if err := sc.client.get(ctx, PathCompare, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Correlations returns feature correlations with target ("views" or "ctr").
// GET /stats/correlations?target={target}
func (sc *StatsClient) Correlations(ctx context.Context, target string) (*Correlations, error) {
	if target == "" {
		target = "views"
	}
	if target != "views" && target != "ctr" {
		return nil, invalidArg("target must be views or ctr")
	}
	q := url.Values{}
	q.Set("target", target)
	var resp Correlations
	if err := sc.client.get(ctx, PathCorrelations, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Likeness returns the binary likeness scores.
// GET /stats/mrbeast-likeness
func (sc *StatsClient) Likeness(ctx context.Context, panelOnly bool) (*Likeness, error) {
	var resp Likeness
	if err := sc.client.get(ctx, PathLikeness, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Similarity returns the continuous similarity scores.
// GET /stats/mrbeast-similarity
func (sc *StatsClient) Similarity(ctx context.Context, panelOnly bool) (*Similarity, error) {
	var resp Similarity
	if err := sc.client.get(ctx, PathSimilarity, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TitleLikeness returns the title scores.
// GET /stats/title-likeness
func (sc *StatsClient) TitleLikeness(ctx context.Context, panelOnly bool) (*TitleLikeness, error) {
	var resp TitleLikeness
	if err := sc.client.get(ctx, PathTitleLikeness, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CombinedLikeness returns the combined thumbnail+title scores.
// GET /stats/combined-likeness
func (sc *StatsClient) CombinedLikeness(ctx context.Context, panelOnly bool) (*CombinedLikeness, error) {
	var resp CombinedLikeness
	if err := sc.client.get(ctx, PathCombinedLikeness, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WeightedLikeness returns the weighted likeness scores.
// GET /stats/weighted-likeness
func (sc *StatsClient) WeightedLikeness(ctx context.Context, panelOnly bool) (*WeightedLikeness, error) {
	var resp WeightedLikeness
	if err := sc.client.get(ctx, PathWeightedLikeness, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConvergenceTests returns the statistical convergence evidence.
// GET /stats/convergence-tests
func (sc *StatsClient) ConvergenceTests(ctx context.Context, panelOnly bool) (*ConvergenceTests, error) {
	var resp ConvergenceTests
	if err := sc.client.get(ctx, PathConvergenceTests, panelQuery(panelOnly), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChannelEvolution returns per-channel score series for channels active in
// at least minYears years.
// GET /stats/channel-evolution?min_years={minYears}
func (sc *StatsClient) ChannelEvolution(ctx context.Context, minYears int, panelOnly bool) (*ChannelEvolution, error) {
	q, err := evolutionQuery(minYears, panelOnly)
	if err != nil {
		return nil, err
	}
	var resp ChannelEvolution
	if err := sc.client.get(ctx, PathChannelEvolution, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Raw variants return the undecoded body so callers can distinguish a
// missing field from a zero one.

// LikenessRaw is Likeness without decoding.
func (sc *StatsClient) LikenessRaw(ctx context.Context, panelOnly bool) (json.RawMessage, error) {
	return sc.client.getRaw(ctx, PathLikeness, panelQuery(panelOnly))
}

// SimilarityRaw is Similarity without decoding.
func (sc *StatsClient) SimilarityRaw(ctx context.Context, panelOnly bool) (json.RawMessage, error) {
	return sc.client.getRaw(ctx, PathSimilarity, panelQuery(panelOnly))
}

// TitleLikenessRaw is TitleLikeness without decoding.
func (sc *StatsClient) TitleLikenessRaw(ctx context.Context, panelOnly bool) (json.RawMessage, error) {
	return sc.client.getRaw(ctx, PathTitleLikeness, panelQuery(panelOnly))
}

// CombinedLikenessRaw is CombinedLikeness without decoding.
func (sc *StatsClient) CombinedLikenessRaw(ctx context.Context, panelOnly bool) (json.RawMessage, error) {
	return sc.client.getRaw(ctx, PathCombinedLikeness, panelQuery(panelOnly))
}

// WeightedLikenessRaw is WeightedLikeness without decoding.
func (sc *StatsClient) WeightedLikenessRaw(ctx context.Context, panelOnly bool) (json.RawMessage, error) {
	return sc.client.getRaw(ctx, PathWeightedLikeness, panelQuery(panelOnly))
}

func evolutionQuery(minYears int, panelOnly bool) (url.Values, error) {
	if minYears < 1 {
		return nil, invalidArg("minYears must be at least 1")
	}
	q := panelQuery(panelOnly)
	q.Set("min_years", strconv.Itoa(minYears))
	return q, nil
}
