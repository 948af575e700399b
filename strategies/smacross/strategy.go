// Package smacross signals on a fast simple moving average of the close
// rising above a slow one.
package smacross

import (
	"backtrader/types"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidWindows = errors.New("invalid moving average windows")

const (
	DefaultFast = 3
	DefaultSlow = 8
)

// Strategy emits a buy on every row where SMA(Fast) > SMA(Slow). Other rows
// hold, unless ExitOnCross is set, in which case they sell. Rows before the
// slow average has a full window always hold.
type Strategy struct {
	Fast        int
	Slow        int
	ExitOnCross bool
}

func New(fast, slow int, exitOnCross bool) (*Strategy, error) {
	s := &Strategy{Fast: fast, Slow: slow, ExitOnCross: exitOnCross}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func NewDefault() *Strategy {
	return &Strategy{Fast: DefaultFast, Slow: DefaultSlow}
}

func (s *Strategy) validate() error {
	if s.Fast <= 0 || s.Slow <= 0 || s.Fast >= s.Slow {
		return fmt.Errorf("%w: fast %d, slow %d", ErrInvalidWindows, s.Fast, s.Slow)
	}
	return nil
}

func (s *Strategy) GenerateSignals(candles []types.Candle) (types.SignalFrame, error) {
	frame := types.NewSignalFrame(candles)
	if err := s.validate(); err != nil {
		return frame, err
	}

	fast := rollingMean(frame.Close, s.Fast)
	slow := rollingMean(frame.Close, s.Slow)
	for i := s.Slow - 1; i < frame.Len(); i++ {
		enter := fast[i].GreaterThan(slow[i])
		switch {
		case enter:
			frame.Signal[i] = types.SignalFromBool(enter)
		case s.ExitOnCross:
			frame.Signal[i] = types.SignalSell
		}
	}
	return frame, nil
}

// rollingMean is the trailing mean over window values. Entries before the
// first full window are zero.
func rollingMean(values []decimal.Decimal, window int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	w := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(v)
		if i >= window {
			sum = sum.Sub(values[i-window])
		}
		if i >= window-1 {
			out[i] = sum.Div(w)
		}
	}
	return out
}
