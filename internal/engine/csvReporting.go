package engine

import (
	"backtrader/types"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	valuesCSVName  = "values.csv"
	historyCSVName = "history.csv"
	tradesCSVName  = "trades.csv"
)

// WriteCSVReports writes the per-row values (including the total when it is
// defined), the change-only histories and the executed trades into dir.
func (e *Engine) WriteCSVReports(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	writers := map[string]func(io.Writer) error{
		valuesCSVName:  e.writeValuesCSV,
		historyCSVName: e.writeHistoryCSV,
		tradesCSVName:  e.writeTradesCSV,
	}
	for name, write := range writers {
		if err := writeCSVFile(filepath.Join(dir, name), write); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (e *Engine) writeValuesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "row", "timestamp", "total_value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, symbol := range e.symbols {
		run := e.runs[symbol]
		for i, value := range run.daily {
			record := []string{symbol, strconv.Itoa(i), run.timestamps[i].Format(time.RFC3339), value.String()}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}

	// The total is only exported when it is well defined.
	total, err := e.TotalPortfolioValues()
	if err != nil && !errors.Is(err, ErrHistoryLengthMismatch) && !errors.Is(err, ErrHistoryCadenceMismatch) {
		return err
	}
	for i, value := range total {
		if err := cw.Write([]string{TotalSeriesName, strconv.Itoa(i), "", value.String()}); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (e *Engine) writeHistoryCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "index", "total_value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, symbol := range e.symbols {
		for i, value := range e.runs[symbol].history {
			if err := cw.Write([]string{symbol, strconv.Itoa(i), value.String()}); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *Engine) writeTradesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{
		"trade_id",
		"symbol",
		"side",
		"price",
		"quantity",
		"notional",
		"commission",
		"time", // RFC3339
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	id := 0
	for _, symbol := range e.symbols {
		for _, tr := range e.runs[symbol].ledger.trades {
			if err := writeTradeRow(cw, id, tr); err != nil {
				return err
			}
			id++
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTradeRow(cw *csv.Writer, id int, tr types.Trade) error {
	record := []string{
		strconv.Itoa(id),
		tr.Symbol,
		string(tr.Side),
		tr.Price.String(),
		tr.Quantity.String(),
		tr.Notional.String(),
		tr.Commission.String(),
		tr.Time.Format(time.RFC3339),
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
