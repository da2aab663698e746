package view

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/pkg/client"
)

func TestOverviewView(t *testing.T) {
	f := newFakeService(t)
	f.reply(client.PathOverview, client.OverviewStats{
		TotalThumbnails: 100,
		ByGroup:         map[string]int{"2020": 60, "mrbeast": 40},
		ByYear:          map[string]int{"2020": 60},
	})
	f.reply("/thumbnails/pipeline/status", client.PipelineStatus{TotalThumbnails: 100, Processed: 25})
	v := NewOverviewView(f.deps())

	s, err := v.Load(context.Background(), NoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "mrbeast", s.Data.Overview.ByGroup[0].Category)
	assert.Equal(t, 40.0, s.Data.Overview.ByGroup[0].Percent)
	assert.Equal(t, 25.0, s.Data.Progress.Percent)
}

func TestOverviewView_PipelineFailure(t *testing.T) {
	f := newFakeService(t)
	f.reply(client.PathOverview, client.OverviewStats{TotalThumbnails: 1})
	v := NewOverviewView(f.deps())

	s, err := v.Load(context.Background(), NoFilter{})
	require.Error(t, err)
	assert.Equal(t, StateError, s.State)
}

func TestCorrelationsView(t *testing.T) {
	f := newFakeService(t)
	f.handle(client.PathCorrelations, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, client.Correlations{
			Target: r.URL.Query().Get("target"),
			Correlations: []client.Correlation{
				{Feature: "a", Correlation: 0.1},
				{Feature: "b", Correlation: -0.3},
			},
		})
	})
	v := NewCorrelationsView(f.deps())

	s, err := v.Load(context.Background(), CorrelationsFilter{Target: "ctr"})
	require.NoError(t, err)
	assert.Equal(t, "ctr", s.Data.Target)
	assert.Equal(t, "b", s.Data.Rows[0].Feature)
}

func TestThumbnailsView_Paging(t *testing.T) {
	f := newFakeService(t)
	f.handle("/thumbnails", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		title := "page " + page
		writeJSON(w, client.ThumbnailList{
			Items:    []client.Thumbnail{{ID: 1, Group: "2020", FilePath: "data/thumbnails/2020/a.jpg", Title: &title}},
			Total:    120,
			Page:     map[string]int{"1": 1, "2": 2}[page],
			PageSize: 50,
		})
	})
	v := NewThumbnailsView(f.deps())

	s, err := v.Load(context.Background(), v.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Data.Pages)
	assert.Equal(t, f.srv.URL+"/static/thumbnails/2020/a.jpg", s.Data.Rows[0].ImageURL)

	s, err = v.Page(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Data.Page)
	assert.Equal(t, "page 2", s.Data.Rows[0].Title)
	assert.Equal(t, 50, s.Filter.PageSize)

	_, err = v.Page(context.Background(), 0)
	assert.Error(t, err)
}

func TestSelectionLookup(t *testing.T) {
	f := newFakeService(t)
	release := make(chan struct{})
	f.handle("/thumbnails/7", func(w http.ResponseWriter, _ *http.Request) {
		<-release
		writeJSON(w, client.Thumbnail{ID: 7, Group: "mrbeast", FilePath: "data/thumbnails/mrbeast/7.jpg"})
	})
	lookup := NewSelectionLookup(f.deps())

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, err := lookup.Lookup(context.Background(), 7)
			if err == nil {
				results[i] = row.ImageURL
			}
		}(i)
	}
	close(release)
	wg.Wait()

	for _, u := range results {
		assert.Equal(t, f.srv.URL+"/static/thumbnails/mrbeast/7.jpg", u)
	}
	assert.LessOrEqual(t, f.count("/thumbnails/7"), 5)

	_, ok, err := lookup.Selected(context.Background(), nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = lookup.Selected(context.Background(), func() *int64 { id := int64(99); return &id }())
	assert.Error(t, err)
}
