package main

import (
	"backtrader/strategies/donchian"
	"backtrader/strategies/grid"
	"backtrader/strategies/smacross"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func strategyFromYAML(t *testing.T, raw string) strategyConfig {
	t.Helper()
	var c strategyConfig
	require.NoError(t, yaml.Unmarshal([]byte(raw), &c))
	return c
}

func TestNewStrategy(t *testing.T) {
	source, err := newStrategy(strategyFromYAML(t, "name: smacross\n"))
	require.NoError(t, err)
	sma, ok := source.(*smacross.Strategy)
	require.True(t, ok)
	assert.Equal(t, smacross.DefaultFast, sma.Fast)
	assert.Equal(t, smacross.DefaultSlow, sma.Slow)

	source, err = newStrategy(strategyFromYAML(t, "name: smacross\nparams:\n  fast: 10\n  slow: 30\n  exit_on_cross: true\n"))
	require.NoError(t, err)
	sma = source.(*smacross.Strategy)
	assert.Equal(t, 10, sma.Fast)
	assert.Equal(t, 30, sma.Slow)
	assert.True(t, sma.ExitOnCross)

	source, err = newStrategy(strategyFromYAML(t, "name: donchian\nparams:\n  lookback: 4\n"))
	require.NoError(t, err)
	dc := source.(*donchian.Strategy)
	assert.Equal(t, 4, dc.Lookback)
	assert.Equal(t, donchian.DefaultATR, dc.ATRPeriod)
	assert.True(t, dc.ATRMultiplier.Equal(donchian.DefaultATRMultiplier))

	source, err = newStrategy(strategyFromYAML(t, "name: grid\nparams:\n  delta: 2\n  min: 10\n  max: 50\n"))
	require.NoError(t, err)
	g := source.(*grid.Strategy)
	assert.Len(t, g.Grid.Lines, 21)
}

func TestNewStrategy_Invalid(t *testing.T) {
	_, err := newStrategy(strategyFromYAML(t, "name: smacross\nparams:\n  fast: 30\n  slow: 10\n"))
	assert.ErrorIs(t, err, smacross.ErrInvalidWindows)

	_, err = newStrategy(strategyFromYAML(t, "name: grid\n"))
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)

	_, err = newStrategy(strategyFromYAML(t, "name: smacross\nparams:\n  fast: [1]\n"))
	assert.Error(t, err)

	_, err = newStrategy(strategyConfig{Name: "martingale"})
	assert.Error(t, err)
}
