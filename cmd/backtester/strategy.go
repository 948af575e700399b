package main

import (
	"backtrader/internal/engine"
	"backtrader/strategies/donchian"
	"backtrader/strategies/grid"
	"backtrader/strategies/smacross"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type smacrossParams struct {
	Fast        int  `yaml:"fast"`
	Slow        int  `yaml:"slow"`
	ExitOnCross bool `yaml:"exit_on_cross"`
}

type donchianParams struct {
	Lookback      int     `yaml:"lookback"`
	ATRPeriod     int     `yaml:"atr_period"`
	ATRMultiplier float64 `yaml:"atr_multiplier"`
}

type gridParams struct {
	Delta float64 `yaml:"delta"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// newStrategy builds the named signal source. Unset parameters fall back to
// the strategy's defaults.
func newStrategy(c strategyConfig) (engine.SignalSource, error) {
	switch c.Name {
	case "smacross":
		p := smacrossParams{Fast: smacross.DefaultFast, Slow: smacross.DefaultSlow}
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		s, err := smacross.New(p.Fast, p.Slow, p.ExitOnCross)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "donchian":
		p := donchianParams{
			Lookback:      donchian.DefaultLookback,
			ATRPeriod:     donchian.DefaultATR,
			ATRMultiplier: donchian.DefaultATRMultiplier.InexactFloat64(),
		}
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		s, err := donchian.New(p.Lookback, p.ATRPeriod, decimal.NewFromFloat(p.ATRMultiplier))
		if err != nil {
			return nil, err
		}
		return s, nil

	case "grid":
		var p gridParams
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		s, err := grid.New(decimal.NewFromFloat(p.Delta), decimal.NewFromFloat(p.Min), decimal.NewFromFloat(p.Max))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", c.Name)
}

func decodeParams(node yaml.Node, out any) error {
	if node.Kind == 0 {
		return nil
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("decode strategy params: %w", err)
	}
	return nil
}
