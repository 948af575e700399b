package engine

import (
	"backtrader/types"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type mockFeed struct {
	candles map[string][]types.Candle
	errs    map[string]error
}

func (m mockFeed) GetCandles(_ context.Context, ticker string) ([]types.Candle, error) {
	if err := m.errs[ticker]; err != nil {
		return nil, err
	}
	return m.candles[ticker], nil
}

// mockCandles builds daily candles for ticker with the given closes.
func mockCandles(ticker string, closes ...string) []types.Candle {
	candles := make([]types.Candle, len(closes))
	for i, c := range closes {
		price := decimal.RequireFromString(c)
		candles[i] = types.Candle{
			Ticker:    ticker,
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    decimal.NewFromInt(1),
			Interval:  types.Day,
			Timestamp: testStart.Add(time.Duration(i) * types.IntervalToTime[types.Day]),
		}
	}
	return candles
}

// fixedSignals emits the given signals row by row, holding once they run out.
func fixedSignals(signals ...types.Signal) SignalSource {
	return SignalSourceFunc(func(candles []types.Candle) (types.SignalFrame, error) {
		frame := types.NewSignalFrame(candles)
		copy(frame.Signal, signals)
		return frame, nil
	})
}

func newTestEngine(t *testing.T, config Config, feed CandleFeed) *Engine {
	t.Helper()
	e, err := NewEngine(config, feed, nil)
	require.NoError(t, err)
	return e
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func requireDecimals(t *testing.T, want []string, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Truef(t, decimal.RequireFromString(want[i]).Equal(got[i]), "index %d: want %s, got %s", i, want[i], got[i])
	}
}
