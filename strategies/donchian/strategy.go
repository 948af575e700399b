package donchian

import (
	"backtrader/types"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidParams = errors.New("invalid donchian parameters")

const (
	DefaultLookback = 20
	DefaultATR      = 20
)

var DefaultATRMultiplier = decimal.NewFromInt(2)

// Strategy buys a break of the highest high of the preceding Lookback candles
// and sells a break of their lowest low. While long, a close under
// entry close - ATRMultiplier*ATR(ATRPeriod) also sells.
type Strategy struct {
	Lookback      int
	ATRPeriod     int
	ATRMultiplier decimal.Decimal
}

func New(lookback, atrPeriod int, atrMultiplier decimal.Decimal) (*Strategy, error) {
	if lookback <= 0 || atrPeriod <= 0 {
		return nil, fmt.Errorf("%w: lookback %d, atr period %d", ErrInvalidParams, lookback, atrPeriod)
	}
	if atrMultiplier.IsNegative() {
		return nil, fmt.Errorf("%w: atr multiplier %s", ErrInvalidParams, atrMultiplier)
	}
	return &Strategy{
		Lookback:      lookback,
		ATRPeriod:     atrPeriod,
		ATRMultiplier: atrMultiplier,
	}, nil
}

func NewDefault() *Strategy {
	return &Strategy{
		Lookback:      DefaultLookback,
		ATRPeriod:     DefaultATR,
		ATRMultiplier: DefaultATRMultiplier,
	}
}

func (s *Strategy) GenerateSignals(candles []types.Candle) (types.SignalFrame, error) {
	frame := types.NewSignalFrame(candles)
	if s.Lookback <= 0 || s.ATRPeriod <= 0 {
		return frame, fmt.Errorf("%w: lookback %d, atr period %d", ErrInvalidParams, s.Lookback, s.ATRPeriod)
	}

	atr := atrSeries(candles, s.ATRPeriod)
	long := false
	stopLoss := decimal.Zero

	// The first Lookback candles only fill the channel.
	for i := s.Lookback; i < len(candles); i++ {
		candle := candles[i]
		highestHigh, lowestLow := donchianHighLow(candles[i-s.Lookback : i])

		switch {
		case candle.High.GreaterThan(highestHigh):
			frame.Signal[i] = types.SignalBuy
			if !long {
				stopLoss = decimal.Zero
				if atr[i].IsPositive() {
					stopLoss = candle.Close.Sub(atr[i].Mul(s.ATRMultiplier))
				}
			}
			long = true

		case candle.Low.LessThan(lowestLow):
			frame.Signal[i] = types.SignalSell
			long = false
			stopLoss = decimal.Zero

		case long && stopLoss.IsPositive() && candle.Close.LessThan(stopLoss):
			// ATR stop-loss exit
			frame.Signal[i] = types.SignalSell
			long = false
			stopLoss = decimal.Zero
		}
	}
	return frame, nil
}

// Utility: Donchian Channel High/Low
func donchianHighLow(candles []types.Candle) (decimal.Decimal, decimal.Decimal) {
	if len(candles) == 0 {
		return decimal.Zero, decimal.Zero
	}

	highest := candles[0].High
	lowest := candles[0].Low

	for _, c := range candles {
		if c.High.GreaterThan(highest) {
			highest = c.High
		}
		if c.Low.LessThan(lowest) {
			lowest = c.Low
		}
	}
	return highest, lowest
}

// atrSeries returns Wilder's ATR over candles[:i+1] at every index i. Entries
// without period true ranges behind them are zero.
func atrSeries(candles []types.Candle, period int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(candles))
	if len(candles) < period+1 {
		return out
	}

	p := decimal.NewFromInt(int64(period))
	pm1 := decimal.NewFromInt(int64(period - 1))

	atr := decimal.Zero
	for i := 1; i <= period; i++ {
		atr = atr.Add(candles[i].TrueRange(candles[i-1]))
	}
	atr = atr.Div(p)
	out[period] = atr

	for i := period + 1; i < len(candles); i++ {
		atr = atr.Mul(pm1).Add(candles[i].TrueRange(candles[i-1])).Div(p)
		out[i] = atr
	}
	return out
}
