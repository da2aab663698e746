package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/pkg/client"
	apperrors "github.com/thumblens/thumblens/pkg/errors"
)

const testConfig = `
api:
  base_url: http://stats.invalid
categories:
  order: [mrbeast, "2019", "2020", "2021"]
`

func intPtr(v int) *int { return &v }

func fixtures() map[string]interface{} {
	title := "Biggest Video Ever"
	channel := "MrBeast"
	year := 2020
	views := int64(1500000)
	return map[string]interface{}{
		client.PathOverview: client.OverviewStats{
			TotalThumbnails: 100,
			ByGroup:         map[string]int{"2020": 60, "mrbeast": 40},
			ByYear:          map[string]int{"2020": 60},
		},
		"/thumbnails/pipeline/status": client.PipelineStatus{TotalThumbnails: 100, Processed: 50},
		client.PathCorrelations: client.Correlations{
			Target: "views",
			Correlations: []client.Correlation{
				{Feature: "color.avg_saturation", Correlation: 0.42, PValue: 0.00001, SampleSize: 90, Significant: true},
				{Feature: "face.face_count", Correlation: -0.05, PValue: 0.6, SampleSize: 90},
			},
		},
		client.PathChannelEvolution: client.ChannelEvolution{
			TotalChannels: 2,
			Channels: map[string]client.ChannelSeries{
				"ChanA": {NumYears: 3, Years: map[string]client.ChannelYear{
					"2019": {Count: 5, MeanScore: 3},
					"2020": {Count: 5, MeanScore: 4},
					"2021": {Count: 5, MeanScore: 5},
				}},
				"ChanB": {NumYears: 2, Years: map[string]client.ChannelYear{
					"2019": {Count: 4, MeanScore: 2.5},
					"2020": {Count: 4, MeanScore: 2},
				}},
			},
			Trends: []client.ChannelTrend{
				{Channel: "ChanA", Slope: 1, StartYear: "2019", EndYear: "2021", StartScore: 3, EndScore: 5, NumYears: 3},
				{Channel: "ChanB", Slope: -0.5, StartYear: "2019", EndYear: "2020", StartScore: 2.5, EndScore: 2, NumYears: 2},
			},
		},
		"/clustering/run": client.ClusteringResult{
			Method: "kmeans",
			K:      2,
			ClusterStats: map[string]client.ClusterStat{
				"0": {Count: 2, Groups: map[string]int{"mrbeast": 1, "2020": 1}},
				"1": {Count: 1, Groups: map[string]int{"2020": 1}},
			},
			ExplainedVariance: []float64{0.3, 0.2},
		},
		"/clustering/points": []client.ClusterPoint{
			{ID: 7, X: 0.1, Y: 0.2, ClusterID: intPtr(0), Group: "mrbeast", FilePath: "data/thumbnails/mrbeast/x.jpg", Title: &title},
			{ID: 8, X: 0.4, Y: 0.1, ClusterID: intPtr(0), Group: "2020", FilePath: "data/thumbnails/2020/y.jpg"},
			{ID: 9, X: 0.9, Y: 0.8, ClusterID: intPtr(1), Group: "2020", FilePath: "data/thumbnails/2020/z.jpg"},
		},
		"/thumbnails/7": client.Thumbnail{
			ID: 7, Group: "mrbeast", FilePath: "data/thumbnails/mrbeast/x.jpg",
			Title: &title, Channel: &channel, Year: &year, Views: &views,
		},
		"/thumbnails": client.ThumbnailList{
			Items:    []client.Thumbnail{{ID: 7, Group: "mrbeast", FilePath: "data/thumbnails/mrbeast/x.jpg", Title: &title, Views: &views}},
			Total:    1,
			Page:     1,
			PageSize: 50,
		},
	}
}

func statsService(t *testing.T, routes map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thumblens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

type run struct {
	stdout string
	stderr string
	cmd    *cobra.Command
}

func execute(t *testing.T, routes map[string]interface{}, args ...string) (run, error) {
	t.Helper()
	srv := statsService(t, routes)
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", writeConfig(t), "--server", srv.URL, "--no-color"}, args...))
	err := cmd.Execute()
	return run{stdout: out.String(), stderr: errOut.String(), cmd: cmd}, err
}

func TestRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "thumblens", cmd.Use)

	for _, flag := range []string{"config", "log-level", "output", "no-color", "timeout", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"overview", "compare", "likeness", "evolution", "clustering", "convergence", "correlations", "thumbnails", "serve"} {
		assert.True(t, names[name], name)
	}
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	_, err := execute(t, fixtures(), "-o", "yaml", "overview")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.GetCode(err))
}

func TestRootCommand_RejectsUnknownLogLevel(t *testing.T) {
	_, err := execute(t, fixtures(), "--log-level", "loud", "overview")
	require.Error(t, err)
}

func TestOverview_Text(t *testing.T) {
	res, err := execute(t, fixtures(), "overview")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Thumbnails:         100")
	assert.Contains(t, res.stdout, "50 of 100 processed (50.0%)")
	assert.Contains(t, res.stdout, "By group")
	assert.Contains(t, res.stdout, "60.0%")
}

func TestOverview_JSON(t *testing.T) {
	res, err := execute(t, fixtures(), "-o", "json", "overview")
	require.NoError(t, err)

	var out struct {
		View  string `json:"view"`
		State string `json:"state"`
		Data  struct {
			Overview struct {
				TotalThumbnails int `json:"total_thumbnails"`
			} `json:"overview"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "overview", out.View)
	assert.Equal(t, "ready", out.State)
	assert.Equal(t, 100, out.Data.Overview.TotalThumbnails)
}

func TestCompare_RejectsBinsOutOfRange(t *testing.T) {
	_, err := execute(t, fixtures(), "compare", "--bins", "3")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.GetCode(err))
}

func TestEvolution_TextDrawsHeatmap(t *testing.T) {
	res, err := execute(t, fixtures(), "evolution")
	require.NoError(t, err)
	out := res.stdout
	assert.Contains(t, out, "Channels: 2")
	assert.Contains(t, out, "+1.0000 pts/year")
	assert.Contains(t, out, "converging")
	assert.Contains(t, out, "diverging")
	// heatmap row: ChanA with its three yearly scores
	assert.Regexp(t, `ChanA\s+3\.00\s+4\.00\s+5\.00`, out)
	assert.NotContains(t, out, "=== Heatmap ===")
}

func TestEvolution_TableAndChannelSelection(t *testing.T) {
	res, err := execute(t, fixtures(), "-o", "table", "evolution", "--channels", "ChanB,Unknown")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "=== Heatmap ===")
	assert.Contains(t, res.stdout, "=== Selected channels by year ===")

	res, err = execute(t, fixtures(), "-o", "json", "evolution", "--channels", "ChanB,Unknown")
	require.NoError(t, err)
	var out evolutionOutputJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, []string{"ChanB"}, out.Selected)
	assert.Equal(t, []string{"ChanB"}, out.Series.Columns)
}

type evolutionOutputJSON struct {
	Selected []string `json:"selected_channels"`
	Series   struct {
		Columns []string `json:"columns"`
	} `json:"series"`
}

func TestEvolution_RejectsMinYears(t *testing.T) {
	_, err := execute(t, fixtures(), "evolution", "--min-years", "0")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.GetCode(err))
}

func TestClustering_ColorByClusterWithSelection(t *testing.T) {
	res, err := execute(t, fixtures(), "clustering", "--k", "2", "--color-by", "cluster", "--select", "7")
	require.NoError(t, err)
	out := res.stdout
	assert.Contains(t, out, "Method: kmeans, 2 clusters, 3 points")
	assert.Contains(t, out, "PC1 30.0%")
	assert.Contains(t, out, "Series by cluster")
	assert.Contains(t, out, "Cluster 1")
	assert.Contains(t, out, "Biggest Video Ever")
}

func TestClustering_RejectsK(t *testing.T) {
	_, err := execute(t, fixtures(), "clustering", "--k", "11")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.GetCode(err))
}

func TestCorrelations_Text(t *testing.T) {
	res, err := execute(t, fixtures(), "correlations")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Target: views")
	assert.Contains(t, res.stdout, "0.4200")
	assert.Contains(t, res.stdout, "1.00e-5")
	assert.Contains(t, res.stdout, "yes")
}

func TestThumbnails_List(t *testing.T) {
	res, err := execute(t, fixtures(), "thumbnails", "list", "--page", "1")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "1 thumbnails, page 1 of 1")
	assert.Contains(t, res.stdout, "Biggest Video Ever")
	assert.Contains(t, res.stdout, "1,500,000")

	_, err = execute(t, fixtures(), "thumbnails", "list", "--page", "0")
	require.Error(t, err)
}

func TestThumbnails_Get(t *testing.T) {
	res, err := execute(t, fixtures(), "thumbnails", "get", "7")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "MrBeast")
	assert.Contains(t, res.stdout, "2020")
	assert.Contains(t, res.stdout, "/static/thumbnails/mrbeast/x.jpg")

	_, err = execute(t, fixtures(), "thumbnails", "get", "x")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.GetCode(err))
}

func TestThumbnails_GetMissingPrintsServiceError(t *testing.T) {
	res, err := execute(t, fixtures(), "thumbnails", "get", "8")
	require.Error(t, err)
	_, ok := client.AsAPIError(err)
	assert.True(t, ok)

	var stderr bytes.Buffer
	res.cmd.SetErr(&stderr)
	PrintError(res.cmd, err)
	assert.Equal(t, "Error: API error: 404 Not Found\n", stderr.String())
}

func TestPrintError_AppErrorDropsCode(t *testing.T) {
	cmd := &cobra.Command{}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	PrintError(cmd, apperrors.InvalidParam("bins must be between 5 and 100"))
	assert.Equal(t, "Error: bins must be between 5 and 100\n", stderr.String())

	stderr.Reset()
	PrintError(cmd, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestBuildServer_ServesViewsAndMetrics(t *testing.T) {
	srv := statsService(t, fixtures())
	cfg := config.NewDefaultConfig()
	cfg.API.BaseURL = srv.URL

	server, deps, err := buildServer(cfg, logging.NewNopLogger(), []string{"http://localhost:3000"})
	require.NoError(t, err)
	assert.Same(t, cfg, deps.Config())

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/views/correlations", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `thumblens_api_requests_total{endpoint="/stats/correlations",status="200"} 1`)
}

func TestReloadOnChange_RebuildsDeps(t *testing.T) {
	srv := statsService(t, fixtures())
	path := writeConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.API.BaseURL = srv.URL

	_, deps, err := buildServer(cfg, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	before := deps.Palette().Color("2021")
	reloadOnChange(path, deps, logging.NewNopLogger())

	next := testConfig + `  palette:
    "2021": "#101010"
reference:
  baseline_score: 7.25
`
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(next), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool {
		return deps.Config().Reference.BaselineScore == 7.25
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "#101010", deps.Palette().Color("2021"))
	assert.NotEqual(t, before, deps.Palette().Color("2021"))
	assert.Equal(t, []string{"mrbeast", "2019", "2020", "2021"}, deps.Order().Declared())
}
