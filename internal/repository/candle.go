package repository

import (
	"backtrader/types"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var bucketToInterval = map[types.Interval]string{
	types.OneMinute:      "1 minute",
	types.ThreeMinutes:   "3 minutes",
	types.FiveMinutes:    "5 minutes",
	types.FifteenMinutes: "15 minutes",
	types.ThirtyMinutes:  "30 minutes",
	types.Hour:           "1 hour",
	types.TwoHours:       "2 hours",
	types.FourHours:      "4 hours",
	types.Day:            "1 day",
	types.Week:           "1 week",
}

// GetCandles returns the candles of assetId aggregated to interval, oldest
// first, for start <= timestamp < end.
func (db *Database) GetCandles(ctx context.Context, assetId int, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	args := aggregatesParams{
		TimeBucket: bucket,
		AssetID:    int32(assetId),
		StartTime:  start,
		EndTime:    end,
	}
	candles, err := db.candles.GetAggregates(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return convertCandles(candles, interval, ticker), nil
}

func convertCandles(rows []aggregateRow, interval types.Interval, ticker string) []types.Candle {
	candles := make([]types.Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, types.Candle{
			AssetId:   int(row.AssetID),
			Ticker:    ticker,
			Open:      row.Open,
			Close:     row.Close,
			High:      row.High,
			Low:       row.Low,
			Volume:    row.Volume,
			Interval:  interval,
			Timestamp: row.Bucket,
		})
	}
	return candles
}
