package main

import (
	"backtrader/internal/engine"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fileConfig = `
initial_capital: 10000
commission_pct: 0.001
commission_fixed: 1
symbols: [BTCUSDT, ETHUSDT]
reporting:
  periods_per_year: 365
  csv_dir: out
execution:
  parallel: true
data:
  source: file
  path: ./data
  interval: D
  start: 2023-01-01
  end: 2023-12-31
strategy:
  name: smacross
  params:
    fast: 5
    slow: 20
`

func TestParseAppConfig(t *testing.T) {
	c, err := parseAppConfig([]byte(fileConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, c.Engine.Symbols)
	assert.Equal(t, 10000.0, c.Engine.InitialCapital)
	assert.True(t, c.Engine.Execution.Parallel)
	assert.Equal(t, "out", c.Engine.Reporting.CSVDir)
	assert.Equal(t, "file", c.Data.Source)
	assert.Equal(t, "./data", c.Data.Path)
	assert.Equal(t, "smacross", c.Strategy.Name)

	start, end, err := c.Data.timeRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestParseAppConfig_Invalid(t *testing.T) {
	base := "initial_capital: 100\nsymbols: [A]\nstrategy:\n  name: smacross\n"
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "no symbols", raw: "initial_capital: 100\ndata:\n  source: file\n  path: x\n", wantErr: engine.ErrNoSymbols},
		{name: "missing data source", raw: base},
		{name: "unknown data source", raw: base + "data:\n  source: s3\n"},
		{name: "file without path", raw: base + "data:\n  source: file\n"},
		{name: "postgres without url", raw: base + "data:\n  source: postgres\n  start: 2023-01-01\n"},
		{name: "postgres without start", raw: base + "data:\n  source: postgres\n  database_url: postgres://x\n"},
		{name: "bad timestamp unit", raw: base + "data:\n  source: file\n  path: x\n  timestamp_unit: ns\n"},
		{name: "bad date", raw: base + "data:\n  source: file\n  path: x\n  start: 01/02/2023\n"},
		{name: "end before start", raw: base + "data:\n  source: file\n  path: x\n  start: 2023-02-01\n  end: 2023-01-01\n"},
		{name: "unknown strategy", raw: "initial_capital: 100\nsymbols: [A]\ndata:\n  source: file\n  path: x\nstrategy:\n  name: martingale\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAppConfig([]byte(tt.raw))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2023-03-04T05:06:07+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 3, 4, 3, 6, 7, 0, time.UTC), got)

	got, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
