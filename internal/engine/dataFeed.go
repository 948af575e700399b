package engine

import (
	"backtrader/types"
	"context"
	"time"
)

// DatabaseFeed serves candles from the candle store for a fixed interval and
// time range.
type DatabaseFeed struct {
	db       candleStore
	Interval types.Interval
	Start    time.Time
	End      time.Time
}

func NewDatabaseFeed(db candleStore, interval types.Interval, start, end time.Time) *DatabaseFeed {
	return &DatabaseFeed{
		db:       db,
		Interval: interval,
		Start:    start,
		End:      end,
	}
}

func (df *DatabaseFeed) GetCandles(ctx context.Context, ticker string) ([]types.Candle, error) {
	asset, err := df.db.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return df.db.GetCandles(ctx, asset.Id, ticker, df.Interval, df.Start, df.End)
}
