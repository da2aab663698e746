package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/pkg/client"
)

func TestDeps_ReloadAppliesToNextLoad(t *testing.T) {
	f := newFakeService(t)
	f.reply(client.PathChannelEvolution, evolutionJSON)
	d := f.deps()
	v := NewEvolutionView(d)

	before, err := v.Load(context.Background(), v.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, 6.13, before.Data.Baseline)
	beforeColor := d.Palette().Color("2019")

	next := config.NewDefaultConfig()
	next.Categories.Order = []string{"2020", "2019"}
	next.Categories.Palette = map[string]string{"2019": "#000000"}
	next.Reference.BaselineScore = 7.5
	d.Reload(next)

	assert.Same(t, next, d.Config())
	assert.Equal(t, []string{"2020", "2019"}, d.Order().Declared())
	assert.Equal(t, "#000000", d.Palette().Color("2019"))
	assert.NotEqual(t, beforeColor, d.Palette().Color("2019"))
	assert.Equal(t, d.Config().Categories.FallbackColor, d.Palette().Color("mrbeast"))

	after, err := v.Load(context.Background(), v.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, 7.5, after.Data.Baseline)
	assert.Equal(t, 6.13, before.Data.Baseline)
}

func TestDeps_ReloadNilKeepsConfig(t *testing.T) {
	d := NewDeps(nil, nil, nil, nil)
	cfg := d.Config()
	d.Reload(nil)
	assert.Same(t, cfg, d.Config())
}
