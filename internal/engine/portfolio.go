package engine

import (
	"backtrader/types"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PerSymbolHistory returns each symbol's change-only value log: a row's total
// value is recorded only when it differs from the previous recorded entry.
func (e *Engine) PerSymbolHistory() map[string][]decimal.Decimal {
	out := make(map[string][]decimal.Decimal, len(e.runs))
	for symbol, run := range e.runs {
		out[symbol] = append([]decimal.Decimal(nil), run.history...)
	}
	return out
}

// DailyPortfolioValues returns each symbol's total value after every
// processed row. Its length always equals the number of rows simulated.
func (e *Engine) DailyPortfolioValues() map[string][]decimal.Decimal {
	out := make(map[string][]decimal.Decimal, len(e.runs))
	for symbol, run := range e.runs {
		out[symbol] = append([]decimal.Decimal(nil), run.daily...)
	}
	return out
}

// TotalPortfolioValues sums the per-row values of all symbols at matching row
// indices. It is only defined when every symbol processed the same rows:
// different row counts fail with ErrHistoryLengthMismatch and different
// timestamps at the same index fail with ErrHistoryCadenceMismatch.
func (e *Engine) TotalPortfolioValues() ([]decimal.Decimal, error) {
	if len(e.symbols) == 0 {
		return nil, nil
	}
	if err := e.checkAligned(e.symbols); err != nil {
		return nil, err
	}

	total := make([]decimal.Decimal, len(e.runs[e.symbols[0]].daily))
	for i := range total {
		total[i] = decimal.Zero
	}
	for _, symbol := range e.symbols {
		for i, value := range e.runs[symbol].daily {
			total[i] = total[i].Add(value)
		}
	}
	return total, nil
}

// checkAligned verifies that symbols share row count and row timestamps.
func (e *Engine) checkAligned(symbols []string) error {
	if len(symbols) < 2 {
		return nil
	}
	first := e.runs[symbols[0]]
	for _, symbol := range symbols[1:] {
		if len(e.runs[symbol].daily) != len(first.daily) {
			return fmt.Errorf("%w: %s", ErrHistoryLengthMismatch, e.describeLengths(symbols))
		}
	}
	for _, symbol := range symbols[1:] {
		run := e.runs[symbol]
		for i, ts := range run.timestamps {
			if !ts.Equal(first.timestamps[i]) {
				return fmt.Errorf("%w: row %d is %s for %s but %s for %s", ErrHistoryCadenceMismatch, i,
					first.timestamps[i].Format(time.RFC3339), symbols[0], ts.Format(time.RFC3339), symbol)
			}
		}
	}
	return nil
}

func (e *Engine) describeLengths(symbols []string) string {
	parts := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		parts = append(parts, fmt.Sprintf("%s=%d", symbol, len(e.runs[symbol].daily)))
	}
	return strings.Join(parts, ", ")
}

// Timestamps returns the row timestamps simulated for symbol.
func (e *Engine) Timestamps(symbol string) ([]time.Time, error) {
	run, ok := e.runs[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return append([]time.Time(nil), run.timestamps...), nil
}

func (e *Engine) Ledger(symbol string) (types.LedgerSnapshot, error) {
	run, ok := e.runs[symbol]
	if !ok {
		return types.LedgerSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return run.ledger.Snapshot(), nil
}

func (e *Engine) Trades(symbol string) ([]types.Trade, error) {
	run, ok := e.runs[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return append([]types.Trade(nil), run.ledger.trades...), nil
}

func decimalsToFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
