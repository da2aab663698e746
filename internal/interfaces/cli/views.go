package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/view"
)

// runView wraps a command body with the CLI context and the command
// timeout.
func runView(fn func(cmd *cobra.Command, cc *CLIContext) (*Result, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cc, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := cc.commandContext(cmd.Context())
		defer cancel()
		cmd.SetContext(ctx)

		res, err := fn(cmd, cc)
		if err != nil {
			return err
		}
		return PrintResult(cmd, res)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// overview
// ─────────────────────────────────────────────────────────────────────────────

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Dataset counts and feature extraction progress",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			snap, err := view.NewOverviewView(cc.Deps).Load(cmd.Context(), view.NoFilter{})
			if err != nil {
				return nil, err
			}
			return overviewResult(snap), nil
		}),
	}
}

func overviewResult(snap view.Snapshot[view.NoFilter, view.OverviewModel]) *Result {
	ov, pr := snap.Data.Overview, snap.Data.Progress
	r := &Result{Data: snap}
	r.addLine("Thumbnails:         %s", count(ov.TotalThumbnails))
	r.addLine("Features extracted: %s", count(ov.FeaturesExtracted))
	r.addLine("Missing views:      %s", count(ov.MissingViews))
	r.addLine("Missing CTR:        %s", count(ov.MissingCTR))
	r.addLine("Pipeline:           %s of %s processed (%s)", count(pr.Processed), count(pr.Total), percent(pr.Percent))

	r.addSection(countSection("By group", "Group", ov.ByGroup))
	r.addSection(countSection("By year", "Year", ov.ByYear))
	return r
}

func countSection(title, first string, rows []normalize.CountRow) Section {
	s := Section{Title: title, Headers: []string{first, "Thumbnails", "Share"}}
	for _, row := range rows {
		s.Rows = append(s.Rows, []string{row.Category, count(row.Count), percent(row.Percent)})
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// compare
// ─────────────────────────────────────────────────────────────────────────────

func newCompareCmd() *cobra.Command {
	var (
		feature string
		groups  []string
		bins    int
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare one feature's distribution across categories",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			v := view.NewCompareView(cc.Deps)
			f := v.DefaultFilter()
			if cmd.Flags().Changed("feature") {
				f.Feature = feature
			}
			if cmd.Flags().Changed("bins") {
				f.Bins = bins
			}
			f.Groups = groups

			snap, err := v.Load(cmd.Context(), f)
			if err != nil {
				return nil, err
			}
			return compareResult(snap), nil
		}),
	}
	cmd.Flags().StringVar(&feature, "feature", "", "feature to compare, family.name (default: views.default_feature)")
	cmd.Flags().StringSliceVar(&groups, "groups", nil, "categories to compare (default: all)")
	cmd.Flags().IntVar(&bins, "bins", 0, "histogram bins, 5-100 (default: views.default_bins)")
	return cmd
}

var compareColumns = map[string]string{
	normalize.ColCount:  "Count",
	normalize.ColMean:   "Mean",
	normalize.ColMedian: "Median",
	normalize.ColStd:    "Std",
	normalize.ColMin:    "Min",
	normalize.ColMax:    "Max",
}

func compareResult(snap view.Snapshot[view.CompareFilter, normalize.CompareModel]) *Result {
	m := snap.Data
	r := &Result{Data: snap}
	r.addLine("Feature: %s (%s)", normalize.CompareFeatureLabel(m.Feature), m.Feature)
	r.addLine("Bins:    %d", snap.Filter.Bins)
	if len(m.MissingHistograms) > 0 {
		r.addLine("%s", color.YellowString("No distribution for: %s", strings.Join(m.MissingHistograms, ", ")))
	}

	r.addSection(matrixSection("Summary", "Category", m.Summary,
		func(col string) string { return labelOr(compareColumns, col) },
		func(col string) binding.MetricKind {
			if col == normalize.ColCount {
				return binding.KindCount
			}
			return binding.KindRatio
		}))

	hist := Section{Title: "Distribution", Headers: append([]string{"Bin"}, m.HistogramCategories...)}
	for _, row := range m.Histogram {
		line := []string{row.Label}
		for _, cat := range m.HistogramCategories {
			line = append(line, count(row.Counts[cat]))
		}
		hist.Rows = append(hist.Rows, line)
	}
	r.addSection(hist)
	return r
}

func labelOr(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// ─────────────────────────────────────────────────────────────────────────────
// likeness
// ─────────────────────────────────────────────────────────────────────────────

func newLikenessCmd() *cobra.Command {
	var panelOnly bool
	cmd := &cobra.Command{
		Use:   "likeness",
		Short: "Likeness scores of every category against the reference channel",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			snap, err := view.NewLikenessView(cc.Deps).Load(cmd.Context(), view.PanelFilter{PanelOnly: panelOnly})
			if err != nil {
				return nil, err
			}
			return likenessResult(snap), nil
		}),
	}
	cmd.Flags().BoolVar(&panelOnly, "panel-only", false, "restrict to the channel panel")
	return cmd
}

var likenessColumns = map[string]string{
	normalize.ColBinary:     "Binary (0-6)",
	normalize.ColSimilarity: "Similarity (0-100)",
	normalize.ColTitle:      "Title (0-8)",
	normalize.ColCombined:   "Combined (0-16)",
	"mean_score":            "Mean",
	"pct_4plus":             "Score 4+",
	"pct_5plus":             "Score 5+",
	"pct_6":                 "Score 6",
}

func likenessResult(snap view.Snapshot[view.PanelFilter, view.LikenessModel]) *Result {
	m := snap.Data
	r := &Result{Data: snap}
	if ref := m.Reference; ref.Category != "" {
		r.addLine("Reference %s: mean %s, score 6 share %s", ref.Category,
			binding.FormatCell(binding.KindScore, ref.Get("mean_score")),
			binding.FormatCell(binding.KindPercent, ref.Get("pct_6")))
	}
	if snap.Filter.PanelOnly {
		r.addLine("Channel panel only")
	}

	label := func(col string) string { return labelOr(likenessColumns, col) }
	r.addSection(matrixSection("Likeness scores", "Category", m.Scores, label, sameKind(binding.KindScore)))
	r.addSection(matrixSection("Binary score by year", "Year", m.Years, label, func(col string) binding.MetricKind {
		if col == "mean_score" {
			return binding.KindScore
		}
		return binding.KindPercent
	}))
	r.addSection(matrixSection("Binary score distribution (% of year)", "Year", m.BinaryDistribution, verbatim, sameKind(binding.KindPercent)))
	r.addSection(matrixSection("Title score distribution (% of year)", "Year", m.TitleDistribution, verbatim, sameKind(binding.KindPercent)))
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// evolution
// ─────────────────────────────────────────────────────────────────────────────

func newEvolutionCmd() *cobra.Command {
	var (
		minYears  int
		panelOnly bool
		channels  []string
	)
	cmd := &cobra.Command{
		Use:   "evolution",
		Short: "Per-channel likeness trends over the years",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			v := view.NewEvolutionView(cc.Deps)
			f := v.DefaultFilter()
			if cmd.Flags().Changed("min-years") {
				f.MinYears = minYears
			}
			f.PanelOnly = panelOnly

			snap, err := v.Load(cmd.Context(), f)
			if err != nil {
				return nil, err
			}
			if len(channels) > 0 {
				v.SelectChannels(channels)
			}
			return evolutionResult(snap, v.SelectedChannels(), v.Series()), nil
		}),
	}
	cmd.Flags().IntVar(&minYears, "min-years", 0, "minimum years of data per channel (default: views.default_min_years)")
	cmd.Flags().BoolVar(&panelOnly, "panel-only", false, "restrict to the channel panel")
	cmd.Flags().StringSliceVar(&channels, "channels", nil, "channels to list by year (default: strongest trends)")
	return cmd
}

type evolutionOutput struct {
	Snapshot view.Snapshot[view.EvolutionFilter, view.EvolutionModel] `json:"snapshot"`
	Selected []string                                                 `json:"selected_channels"`
	Series   normalize.Matrix                                         `json:"series"`
}

func evolutionResult(snap view.Snapshot[view.EvolutionFilter, view.EvolutionModel], selected []string, series normalize.Matrix) *Result {
	m := snap.Data
	sum := m.Summary
	r := &Result{Data: evolutionOutput{Snapshot: snap, Selected: selected, Series: series}}
	r.addLine("Channels: %d  %s %d (%s)  %s %d (%s)  flat %d",
		sum.TotalChannels,
		classify("converging"), sum.Converging, percent(sum.ConvergingPct),
		classify("diverging"), sum.Diverging, percent(sum.DivergingPct),
		sum.Flat)
	r.addLine("Average slope: %s", binding.Format(binding.KindSlope, sum.AvgSlope))
	r.addLine("Reference baseline: %s", binding.Format(binding.KindScore, m.Baseline))
	if lines := heatLines(m.Heatmap); len(lines) > 0 {
		r.addLine("")
		r.Lines = append(r.Lines, lines...)
	}

	trends := Section{Title: "Trends", Headers: []string{"Channel", "Slope", "Start", "End", "Years", "Trend"}}
	for _, t := range m.Trends {
		trends.Rows = append(trends.Rows, []string{
			t.Channel,
			binding.Format(binding.KindSlope, t.Slope),
			t.StartYear + ": " + binding.Format(binding.KindScore, t.StartScore),
			t.EndYear + ": " + binding.Format(binding.KindScore, t.EndScore),
			fmt.Sprint(t.NumYears),
			classify(t.Classification),
		})
	}
	r.addSection(trends)

	heat := Section{Title: "Heatmap", Headers: append([]string{"Channel"}, m.Heatmap.Years...), TableOnly: true}
	for _, row := range m.Heatmap.Rows {
		line := []string{row.Channel}
		for _, cell := range row.Cells {
			line = append(line, binding.FormatCell(binding.KindScore, cell.Score))
		}
		heat.Rows = append(heat.Rows, line)
	}
	r.addSection(heat)

	r.addSection(matrixSection("Selected channels by year", "Year", series, verbatim, sameKind(binding.KindScore)))
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// clustering
// ─────────────────────────────────────────────────────────────────────────────

func newClusteringCmd() *cobra.Command {
	var (
		k        int
		method   string
		group    string
		colorBy  string
		selectID int64
	)
	cmd := &cobra.Command{
		Use:   "clustering",
		Short: "Run a clustering and summarise the projected thumbnails",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			v := view.NewProjectionView(cc.Deps)
			f := v.DefaultFilter()
			if cmd.Flags().Changed("k") {
				f.K = k
			}
			if cmd.Flags().Changed("method") {
				f.Method = method
			}
			f.Group = group
			v.SetColorBy(view.ParseColorBy(colorBy))

			snap, err := v.Load(cmd.Context(), f)
			if err != nil {
				return nil, err
			}
			out := clusteringOutput{Snapshot: snap, ColorBy: v.ColorBy()}
			if cmd.Flags().Changed("select") {
				if err := v.Select(selectID); err != nil {
					return nil, err
				}
				row, err := view.NewSelectionLookup(cc.Deps).Lookup(cmd.Context(), selectID)
				if err != nil {
					return nil, err
				}
				out.Selected = &row
			}
			return clusteringResult(out, v.Partitions()), nil
		}),
	}
	cmd.Flags().IntVar(&k, "k", 0, "number of clusters, 2-10 (default: views.default_k)")
	cmd.Flags().StringVar(&method, "method", "", "clustering method, kmeans or dbscan (default: views.default_method)")
	cmd.Flags().StringVar(&group, "group", "", "cluster one category only")
	cmd.Flags().StringVar(&colorBy, "color-by", string(view.ColorByCategory), "partition points by category or cluster")
	cmd.Flags().Int64Var(&selectID, "select", 0, "show the details of one thumbnail")
	return cmd
}

type clusteringOutput struct {
	Snapshot view.Snapshot[view.ProjectionFilter, view.ProjectionModel] `json:"snapshot"`
	ColorBy  view.ColorBy                                               `json:"color_by"`
	Selected *normalize.ThumbnailRow                                    `json:"selected,omitempty"`
}

func clusteringResult(out clusteringOutput, parts []normalize.Partition) *Result {
	m := out.Snapshot.Data
	r := &Result{Data: out}
	r.addLine("Method: %s, %d clusters, %s points", m.Method, m.NumClusters, count(len(m.Points)))
	if len(m.Variance) > 0 {
		var vs []string
		for i, v := range m.Variance {
			vs = append(vs, fmt.Sprintf("PC%d %s", i+1, percent(v*100)))
		}
		r.addLine("Explained variance: %s", strings.Join(vs, ", "))
	}
	r.addLine("X range: %s to %s, Y range: %s to %s",
		binding.Format(binding.KindRatio, m.XDomain.Min), binding.Format(binding.KindRatio, m.XDomain.Max),
		binding.Format(binding.KindRatio, m.YDomain.Min), binding.Format(binding.KindRatio, m.YDomain.Max))

	clusters := Section{Title: "Clusters", Headers: []string{"Cluster", "Thumbnails", "Largest categories"}}
	for _, c := range m.Compositions {
		clusters.Rows = append(clusters.Rows, []string{c.Label, count(c.Count), topShares(c, 3)})
	}
	r.addSection(clusters)

	series := Section{Title: "Series by " + string(out.ColorBy), Headers: []string{"Series", "Points"}}
	for _, p := range parts {
		series.Rows = append(series.Rows, []string{p.Label, count(len(p.Points))})
	}
	r.addSection(series)

	if sel := out.Selected; sel != nil {
		r.addSection(thumbnailDetail(*sel))
	}
	return r
}

// topShares lists the n categories with the most thumbnails in c.
func topShares(c normalize.ClusterComposition, n int) string {
	shares := append([]normalize.CategoryRow(nil), c.Shares...)
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Get("count").Value > shares[j].Get("count").Value
	})
	var parts []string
	for i, s := range shares {
		if i == n {
			break
		}
		parts = append(parts, s.Category+" "+binding.FormatCell(binding.KindPercent, s.Get("percent")))
	}
	return strings.Join(parts, ", ")
}

// ─────────────────────────────────────────────────────────────────────────────
// convergence
// ─────────────────────────────────────────────────────────────────────────────

func newConvergenceCmd() *cobra.Command {
	var panelOnly bool
	cmd := &cobra.Command{
		Use:   "convergence",
		Short: "Statistical evidence that years converge on the reference channel",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			snap, err := view.NewConvergenceView(cc.Deps).Load(cmd.Context(), view.PanelFilter{PanelOnly: panelOnly})
			if err != nil {
				return nil, err
			}
			return convergenceResult(snap), nil
		}),
	}
	cmd.Flags().BoolVar(&panelOnly, "panel-only", false, "restrict to the channel panel")
	return cmd
}

func convergenceResult(snap view.Snapshot[view.PanelFilter, view.ConvergenceModel]) *Result {
	m := snap.Data
	r := &Result{Data: snap}
	for _, card := range m.Evidence {
		line := fmt.Sprintf("%-18s %s", card.Label+":", tone(card.Tone, card.Value))
		if card.Detail != "" {
			line += "  " + card.Detail
		}
		r.Lines = append(r.Lines, line)
	}
	r.addLine("Reference baseline: %s", binding.Format(binding.KindScore, m.Baseline))

	ci := Section{Title: "Yearly mean with 95% CI", Headers: []string{"Year", "Mean", "CI low", "CI high", "N"}}
	for _, row := range m.YearCI {
		ci.Rows = append(ci.Rows, []string{
			row.Year,
			binding.Format(binding.KindScore, row.Mean),
			binding.Format(binding.KindScore, row.CILow),
			binding.Format(binding.KindScore, row.CIHigh),
			count(row.N),
		})
	}
	r.addSection(ci)

	label := func(col string) string { return labelOr(m.Labels, col) }
	r.addSection(matrixSection("Feature gap to reference", "Year", m.FeatureGap, label, sameKind(binding.KindGap)))
	r.addSection(matrixSection("Feature ratio to reference", "Year", m.FeatureRatio, label, sameKind(binding.KindRatio)))
	r.addSection(matrixSection("Weighted likeness vs similarity", "Year", m.Weighted,
		func(col string) string {
			return labelOr(map[string]string{normalize.ColWeighted: "Weighted", normalize.ColSimilarity: "Similarity"}, col)
		},
		sameKind(binding.KindRatio)))
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// correlations
// ─────────────────────────────────────────────────────────────────────────────

func newCorrelationsCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "correlations",
		Short: "Correlate features with views or CTR",
		Args:  cobra.NoArgs,
		RunE: runView(func(cmd *cobra.Command, cc *CLIContext) (*Result, error) {
			snap, err := view.NewCorrelationsView(cc.Deps).Load(cmd.Context(), view.CorrelationsFilter{Target: target})
			if err != nil {
				return nil, err
			}
			return correlationsResult(snap), nil
		}),
	}
	cmd.Flags().StringVar(&target, "target", "views", "performance metric, views or ctr")
	return cmd
}

func correlationsResult(snap view.Snapshot[view.CorrelationsFilter, view.CorrelationsModel]) *Result {
	m := snap.Data
	r := &Result{Data: snap}
	r.addLine("Target: %s", m.Target)

	s := Section{Title: "Correlations", Headers: []string{"Feature", "r", "p-value", "n", "Significant"}}
	for _, row := range m.Rows {
		sig := "no"
		if row.Significant {
			sig = color.GreenString("yes")
		}
		s.Rows = append(s.Rows, []string{
			normalize.CompareFeatureLabel(row.Feature),
			binding.Format(binding.KindCorrelation, row.Correlation),
			normalize.FormatExp(row.PValue, 2),
			count(row.SampleSize),
			sig,
		})
	}
	r.addSection(s)
	return r
}
