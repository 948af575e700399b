package engine

import (
	"backtrader/types"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backtest runs source over the named symbol, or over every configured symbol
// when symbol is None. Symbols fail independently: the returned error joins a
// *SymbolError for each symbol that could not be simulated, and every other
// symbol's histories are still populated.
func (e *Engine) Backtest(ctx context.Context, symbol optional.Option[string], source SignalSource) error {
	symbols := e.symbols
	if symbol.IsSome() {
		name := symbol.Unwrap()
		if _, ok := e.runs[name]; !ok {
			e.log.Warn("Symbol is not configured, skipping", zap.String("symbol", name))
			return &SymbolError{Symbol: name, Err: ErrUnknownSymbol}
		}
		symbols = []string{name}
	}

	results := make([]error, len(symbols))
	if e.config.Execution.Parallel && len(symbols) > 1 {
		var g errgroup.Group
		if e.config.Execution.Workers > 0 {
			g.SetLimit(e.config.Execution.Workers)
		}
		for i, name := range symbols {
			g.Go(func() error {
				results[i] = e.backtestSymbol(ctx, name, source, false)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, name := range symbols {
			results[i] = e.backtestSymbol(ctx, name, source, e.config.Execution.ShowProgress)
		}
	}

	var failed []error
	for i, err := range results {
		if err == nil {
			continue
		}
		e.log.Error("Backtest failed for symbol", zap.String("symbol", symbols[i]), zap.Error(err))
		failed = append(failed, &SymbolError{Symbol: symbols[i], Err: err})
	}
	return errors.Join(failed...)
}

func (e *Engine) backtestSymbol(ctx context.Context, symbol string, source SignalSource, showProgress bool) error {
	run, ok := e.runs[symbol]
	if !ok {
		return ErrUnknownSymbol
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.log.Info("Backtesting asset", zap.String("symbol", symbol))

	candles, err := e.feed.GetCandles(ctx, symbol)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataSourceUnavailable, err)
	}
	frame, err := source.GenerateSignals(candles)
	if err != nil {
		return fmt.Errorf("generate signals: %w", err)
	}

	var after time.Time
	if n := len(run.timestamps); n > 0 {
		after = run.timestamps[n-1]
	}
	if err := validateFrame(frame, after); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = initProgressBar(frame.Len(), symbol)
	}
	for i := 0; i < frame.Len(); i++ {
		e.step(run, frame.Timestamp[i], frame.Close[i], frame.Signal[i])
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	e.log.Info("Backtest finished",
		zap.String("symbol", symbol),
		zap.Int("rows", frame.Len()),
		zap.Int("trades", len(run.ledger.trades)),
		zap.String("total_value", run.ledger.TotalValue().String()),
	)
	return nil
}

// step is the per-row transition: trade, revalue, record.
func (e *Engine) step(run *symbolRun, ts time.Time, price decimal.Decimal, signal types.Signal) {
	trade, err := run.ledger.ApplyTrade(signal, price, e.costs, ts)
	switch {
	case err != nil:
		e.log.Warn("Trade refused",
			zap.String("symbol", run.ledger.symbol),
			zap.Stringer("signal", signal),
			zap.String("price", price.String()),
			zap.Error(err),
		)
	case trade != nil:
		e.log.Debug("Trade executed",
			zap.String("symbol", trade.Symbol),
			zap.String("side", string(trade.Side)),
			zap.String("price", trade.Price.String()),
			zap.String("quantity", trade.Quantity.String()),
			zap.String("commission", trade.Commission.String()),
			zap.Time("time", ts),
		)
	}

	run.ledger.MarkToMarket(price, ts)
	value := run.ledger.TotalValue()

	run.daily = append(run.daily, value)
	if n := len(run.history); n == 0 || !run.history[n-1].Equal(value) {
		run.history = append(run.history, value)
	}
	run.timestamps = append(run.timestamps, ts)
}

// validateFrame checks the whole frame before any row touches the ledger, so
// a malformed frame leaves the symbol's state unchanged. Timestamps must not
// go backwards, also relative to after, the last row already simulated.
func validateFrame(frame types.SignalFrame, after time.Time) error {
	n := len(frame.Signal)
	switch {
	case frame.Timestamp == nil && n > 0:
		return &MalformedRowError{Row: -1, Column: "timestamp", Reason: "missing"}
	case frame.Close == nil && n > 0:
		return &MalformedRowError{Row: -1, Column: "close", Reason: "missing"}
	case frame.Signal == nil && (len(frame.Timestamp) > 0 || len(frame.Close) > 0):
		return &MalformedRowError{Row: -1, Column: "signal", Reason: "missing"}
	case len(frame.Timestamp) != n:
		return &MalformedRowError{Row: -1, Column: "timestamp", Reason: fmt.Sprintf("has %d rows, signal has %d", len(frame.Timestamp), n)}
	case len(frame.Close) != n:
		return &MalformedRowError{Row: -1, Column: "close", Reason: fmt.Sprintf("has %d rows, signal has %d", len(frame.Close), n)}
	}

	prev := after
	for i := 0; i < n; i++ {
		ts := frame.Timestamp[i]
		if ts.IsZero() {
			return &MalformedRowError{Row: i, Column: "timestamp", Reason: "zero timestamp"}
		}
		if ts.Before(prev) {
			return &MalformedRowError{Row: i, Column: "timestamp", Reason: fmt.Sprintf("%s is before %s", ts.Format(time.RFC3339), prev.Format(time.RFC3339))}
		}
		prev = ts
		if !frame.Close[i].IsPositive() {
			return &MalformedRowError{Row: i, Column: "close", Reason: fmt.Sprintf("price %s is not positive", frame.Close[i])}
		}
		if !frame.Signal[i].Valid() {
			return &MalformedRowError{Row: i, Column: "signal", Reason: fmt.Sprintf("value %d is not buy, sell or hold", int(frame.Signal[i]))}
		}
	}
	return nil
}

func initProgressBar(maxTicks int, symbol string) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s...", symbol)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
