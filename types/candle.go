package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one OHLCV bar as delivered by a data feed. Feeds return candles
// for a single ticker ordered by Timestamp.
type Candle struct {
	AssetId   int             `json:"assetId"`
	Ticker    string          `json:"ticker"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

// TrueRange is the largest of high-low, |high-prevClose| and |low-prevClose|.
func (c Candle) TrueRange(prev Candle) decimal.Decimal {
	return decimal.Max(
		c.High.Sub(c.Low),
		c.High.Sub(prev.Close).Abs(),
		c.Low.Sub(prev.Close).Abs(),
	)
}
