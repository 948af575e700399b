// Package grid trades around the midpoint of a fixed price grid.
package grid

import (
	"backtrader/types"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a ladder of price lines from Min to Max, Delta apart. The last step
// is shorter when the range is not a multiple of Delta.
type Grid struct {
	Min      decimal.Decimal
	Max      decimal.Decimal
	Delta    decimal.Decimal
	Midpoint decimal.Decimal
	Lines    []decimal.Decimal
}

func NewGrid(delta, min, max decimal.Decimal) (*Grid, error) {
	if !delta.IsPositive() || !max.GreaterThan(min) {
		return nil, fmt.Errorf("%w: delta %s, min %s, max %s", ErrInvalidGrid, delta, min, max)
	}

	steps := max.Sub(min).Div(delta).Ceil().IntPart()
	lines := make([]decimal.Decimal, 0, steps+1)
	lines = append(lines, min)
	for i := int64(1); i < steps; i++ {
		lines = append(lines, min.Add(delta.Mul(decimal.NewFromInt(i))))
	}
	lines = append(lines, max)

	return &Grid{
		Min:      min,
		Max:      max,
		Delta:    delta,
		Midpoint: min.Add(max.Sub(min).Div(decimal.NewFromInt(2))),
		Lines:    lines,
	}, nil
}

// RelativeToMidpoint is -1 below the midpoint, 0 on it and 1 above it.
func (g *Grid) RelativeToMidpoint(price decimal.Decimal) int {
	return price.Cmp(g.Midpoint)
}

// Strategy buys closes under the grid midpoint and sells closes above it.
type Strategy struct {
	Grid *Grid
}

func New(delta, min, max decimal.Decimal) (*Strategy, error) {
	g, err := NewGrid(delta, min, max)
	if err != nil {
		return nil, err
	}
	return &Strategy{Grid: g}, nil
}

func (s *Strategy) GenerateSignals(candles []types.Candle) (types.SignalFrame, error) {
	frame := types.NewSignalFrame(candles)
	if s.Grid == nil {
		return frame, fmt.Errorf("%w: no grid", ErrInvalidGrid)
	}
	for i, price := range frame.Close {
		switch s.Grid.RelativeToMidpoint(price) {
		case -1:
			frame.Signal[i] = types.SignalBuy
		case 1:
			frame.Signal[i] = types.SignalSell
		}
	}
	return frame, nil
}
