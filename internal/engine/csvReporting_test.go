package engine

import (
	"backtrader/types"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSVReports(t *testing.T) {
	feed := mockFeed{candles: map[string][]types.Candle{
		"BTCUSDT": mockCandles("BTCUSDT", "100", "100", "110", "105"),
	}}
	e := newTestEngine(t, NewConfig(1000, 0.001, 1, "BTCUSDT"), feed)
	require.NoError(t, e.Backtest(context.Background(), optional.None[string](),
		fixedSignals(types.SignalBuy, types.SignalBuy, types.SignalSell, types.SignalHold)))

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, e.WriteCSVReports(dir))

	values := readCSV(t, filepath.Join(dir, valuesCSVName))
	require.Len(t, values, 1+4+4)
	assert.Equal(t, []string{"symbol", "row", "timestamp", "total_value"}, values[0])
	assert.Equal(t, []string{"BTCUSDT", "2", "2023-01-03T00:00:00Z", "1097.8011"}, values[3])
	assert.Equal(t, []string{TotalSeriesName, "3", "", "1097.8011"}, values[8])

	history := readCSV(t, filepath.Join(dir, historyCSVName))
	assert.Equal(t, [][]string{
		{"symbol", "index", "total_value"},
		{"BTCUSDT", "0", "999"},
		{"BTCUSDT", "1", "1097.8011"},
	}, history)

	trades := readCSV(t, filepath.Join(dir, tradesCSVName))
	require.Len(t, trades, 3)
	assert.Equal(t, []string{"0", "BTCUSDT", "BUY", "100", "9.99", "1000", "1", "2023-01-01T00:00:00Z"}, trades[1])
	assert.Equal(t, []string{"1", "BTCUSDT", "SELL", "110", "9.99", "1098.9", "1.0989", "2023-01-03T00:00:00Z"}, trades[2])
}

func TestWriteCSVReports_SkipsUndefinedTotal(t *testing.T) {
	feed := mockFeed{candles: map[string][]types.Candle{
		"BTCUSDT": mockCandles("BTCUSDT", "100", "101"),
		"ETHUSDT": mockCandles("ETHUSDT", "10"),
	}}
	e := newTestEngine(t, NewConfig(1000, 0, 0, "BTCUSDT", "ETHUSDT"), feed)
	require.NoError(t, e.Backtest(context.Background(), optional.None[string](), fixedSignals()))

	dir := t.TempDir()
	require.NoError(t, e.WriteCSVReports(dir))

	values := readCSV(t, filepath.Join(dir, valuesCSVName))
	require.Len(t, values, 1+2+1)
	for _, record := range values[1:] {
		assert.NotEqual(t, TotalSeriesName, record[0])
	}
}

func TestWriteCSVFile_Errors(t *testing.T) {
	boom := errors.New("disk full")
	dir := t.TempDir()

	err := writeCSVFile(filepath.Join(dir, "missing", "values.csv"), func(io.Writer) error { return nil })
	assert.ErrorContains(t, err, "create values.csv")

	err = writeCSVFile(filepath.Join(dir, "values.csv"), func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)

	// a file that cannot be closed cleanly is reported
	err = writeCSVFile(filepath.Join(dir, "trades.csv"), func(w io.Writer) error {
		return w.(*os.File).Close()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorContains(t, err, "close trades.csv")
}
