package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultReferenceGroup, cfg.Reference.Group)
	assert.Equal(t, DefaultBaselineScore, cfg.Reference.BaselineScore)
	assert.Equal(t, DefaultCategoryOrder(), cfg.Categories.Order)
	assert.Equal(t, "#e6194b", cfg.Categories.Palette["mrbeast"])
	assert.Len(t, cfg.Categories.SeriesPalette, 17)
	assert.Equal(t, DefaultLowPercentile, cfg.Transform.LowPercentile)
	assert.Equal(t, DefaultHighPercentile, cfg.Transform.HighPercentile)
	assert.Equal(t, DefaultBinTolerance, cfg.Transform.BinTolerance)
	assert.Equal(t, DefaultBins, cfg.Views.DefaultBins)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Reference.BaselineScore = 5.5
	cfg.Categories.Order = []string{"mrbeast", "2020"}
	cfg.Transform.LowPercentile = 0.1
	cfg.Transform.HighPercentile = 0.9
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5.5, cfg.Reference.BaselineScore)
	assert.Equal(t, []string{"mrbeast", "2020"}, cfg.Categories.Order)
	assert.Equal(t, 0.1, cfg.Transform.LowPercentile)
	assert.Equal(t, 0.9, cfg.Transform.HighPercentile)
}

func TestApplyDefaults_ExplicitZeroLowPercentileKept(t *testing.T) {
	cfg := &Config{}
	cfg.Transform.HighPercentile = 1
	ApplyDefaults(cfg)
	assert.Equal(t, 0.0, cfg.Transform.LowPercentile)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestDefaultPalette_CoversDefaultOrder(t *testing.T) {
	palette := DefaultPalette()
	for _, cat := range DefaultCategoryOrder() {
		_, ok := palette[cat]
		assert.True(t, ok, cat)
	}
}
