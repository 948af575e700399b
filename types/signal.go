package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal is the action a strategy asks for on one row.
type Signal int

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

// SignalFromBool resolves a boolean strategy output: true means enter.
// A false value never exits a position.
func SignalFromBool(enter bool) Signal {
	if enter {
		return SignalBuy
	}
	return SignalHold
}

func (s Signal) Valid() bool {
	return s == SignalSell || s == SignalHold || s == SignalBuy
}

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	case SignalHold:
		return "HOLD"
	}
	return "INVALID"
}

// SignalFrame is the row table a strategy hands to the engine. The three
// columns are aligned by row index.
type SignalFrame struct {
	Timestamp []time.Time
	Close     []decimal.Decimal
	Signal    []Signal
}

// NewSignalFrame copies timestamp and close out of candles and sets every
// signal to hold.
func NewSignalFrame(candles []Candle) SignalFrame {
	frame := SignalFrame{
		Timestamp: make([]time.Time, len(candles)),
		Close:     make([]decimal.Decimal, len(candles)),
		Signal:    make([]Signal, len(candles)),
	}
	for i, c := range candles {
		frame.Timestamp[i] = c.Timestamp
		frame.Close[i] = c.Close
	}
	return frame
}

// Len is the row count. It is only meaningful once the columns are known to
// be aligned.
func (f SignalFrame) Len() int {
	return len(f.Signal)
}
