package engine

import (
	"backtrader/types"
	"context"
	"time"
)

// SignalSource is a strategy: it turns one symbol's candles into a signal
// frame. The engine never looks at how the signals were derived, only at the
// timestamp, close and signal columns.
type SignalSource interface {
	GenerateSignals(candles []types.Candle) (types.SignalFrame, error)
}

// SignalSourceFunc adapts a plain function to SignalSource.
type SignalSourceFunc func(candles []types.Candle) (types.SignalFrame, error)

func (f SignalSourceFunc) GenerateSignals(candles []types.Candle) (types.SignalFrame, error) {
	return f(candles)
}

// CandleFeed loads the historical candles of one ticker, oldest first.
type CandleFeed interface {
	GetCandles(ctx context.Context, ticker string) ([]types.Candle, error)
}

type candleStore interface {
	GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error)
	GetCandles(ctx context.Context, assetId int, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}
