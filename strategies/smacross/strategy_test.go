package smacross

import (
	"backtrader/types"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closes(values ...int64) []types.Candle {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, len(values))
	for i, v := range values {
		price := decimal.NewFromInt(v)
		candles[i] = types.Candle{
			Ticker:    "BTCUSDT",
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Interval:  types.Day,
			Timestamp: start.AddDate(0, 0, i),
		}
	}
	return candles
}

func TestRollingMean(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(3),
		decimal.NewFromInt(4), decimal.NewFromInt(8),
	}
	got := rollingMean(values, 2)
	want := []string{"0", "1.5", "2.5", "3.5", "6"}
	for i := range want {
		assert.Truef(t, got[i].Equal(decimal.RequireFromString(want[i])), "index %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestStrategy_GenerateSignals(t *testing.T) {
	candles := closes(10, 10, 10, 12, 14, 10, 6, 6)
	tests := []struct {
		name        string
		exitOnCross bool
		want        []types.Signal
	}{
		{
			name: "false holds",
			want: []types.Signal{
				types.SignalHold, types.SignalHold,
				types.SignalHold, types.SignalBuy, types.SignalBuy, types.SignalHold, types.SignalHold, types.SignalHold,
			},
		},
		{
			name:        "false exits",
			exitOnCross: true,
			want: []types.Signal{
				types.SignalHold, types.SignalHold,
				types.SignalSell, types.SignalBuy, types.SignalBuy, types.SignalSell, types.SignalSell, types.SignalSell,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(2, 3, tt.exitOnCross)
			require.NoError(t, err)

			frame, err := s.GenerateSignals(candles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, frame.Signal)
			assert.Len(t, frame.Close, len(candles))
		})
	}
}

func TestStrategy_DefaultWindowsNeedEightRows(t *testing.T) {
	frame, err := NewDefault().GenerateSignals(closes(1, 2, 3, 4, 5, 6, 7))
	require.NoError(t, err)
	for _, sig := range frame.Signal {
		assert.Equal(t, types.SignalHold, sig)
	}

	frame, err = NewDefault().GenerateSignals(closes(1, 2, 3, 4, 5, 6, 7, 8))
	require.NoError(t, err)
	assert.Equal(t, types.SignalBuy, frame.Signal[7])
}

func TestNew_InvalidWindows(t *testing.T) {
	for _, w := range [][2]int{{0, 3}, {3, 3}, {5, 2}, {-1, 4}} {
		_, err := New(w[0], w[1], false)
		assert.ErrorIs(t, err, ErrInvalidWindows)
	}
}
