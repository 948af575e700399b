package engine

import (
	"backtrader/internal/performance"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalSeriesName labels the aggregated portfolio in reports and exports.
const TotalSeriesName = "TOTAL"

// SeriesReport is the metric set of one value series. NoData is set when the
// series is empty; Err is set when the series itself could not be built.
type SeriesReport struct {
	Name   string
	NoData bool
	Err    error
	performance.Summary
	TotalTrades int
	TotalFees   decimal.Decimal
}

type Report struct {
	ID             string
	GeneratedAt    time.Time
	PeriodsPerYear float64
	RiskFreeRate   float64
	Symbols        []SeriesReport
	Total          SeriesReport
}

// PerformanceReport computes the metrics of every symbol's daily values and
// of the aggregated total. Metrics are computed per series in parallel; the
// engine's histories are only read.
func (e *Engine) PerformanceReport() *Report {
	report := &Report{
		ID:             uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		PeriodsPerYear: e.config.Reporting.PeriodsPerYear,
		RiskFreeRate:   e.config.Reporting.RiskFreeRate,
		Symbols:        make([]SeriesReport, len(e.symbols)),
	}

	var wg sync.WaitGroup
	wg.Add(len(e.symbols) + 1)
	for i, symbol := range e.symbols {
		go func() {
			report.Symbols[i] = e.calcSymbolReport(symbol, &wg)
		}()
	}
	go func() {
		report.Total = e.calcTotalReport(&wg)
	}()
	wg.Wait()

	return report
}

func (e *Engine) calcSymbolReport(symbol string, wg *sync.WaitGroup) SeriesReport {
	defer wg.Done()

	run := e.runs[symbol]
	sr := SeriesReport{
		Name:        symbol,
		TotalTrades: len(run.ledger.trades),
		TotalFees:   run.ledger.totalFees(),
	}
	if len(run.daily) == 0 {
		sr.NoData = true
		return sr
	}
	sr.Summary = performance.Summarize(
		decimalsToFloats(run.daily),
		run.ledger.initialCash.InexactFloat64(),
		e.config.Reporting.PeriodsPerYear,
		e.config.Reporting.RiskFreeRate,
	)
	return sr
}

func (e *Engine) calcTotalReport(wg *sync.WaitGroup) SeriesReport {
	defer wg.Done()

	sr := SeriesReport{Name: TotalSeriesName, TotalFees: decimal.Zero}
	for _, run := range e.runs {
		sr.TotalTrades += len(run.ledger.trades)
		sr.TotalFees = sr.TotalFees.Add(run.ledger.totalFees())
	}

	total, err := e.TotalPortfolioValues()
	if err != nil {
		sr.Err = err
		return sr
	}
	if len(total) == 0 {
		sr.NoData = true
		return sr
	}
	sr.Summary = performance.Summarize(
		decimalsToFloats(total),
		e.config.InitialCapital,
		e.config.Reporting.PeriodsPerYear,
		e.config.Reporting.RiskFreeRate,
	)
	return sr
}

// PrintReport writes report to stdout.
func (e *Engine) PrintReport(report *Report) {
	_ = WriteReport(os.Stdout, report)
}

func WriteReport(w io.Writer, report *Report) error {
	p := &reportPrinter{w: w}
	p.printf("===== Performance Report =====\n")
	p.printf("Report ID:             %s\n", report.ID)
	p.printf("Generated At:          %s\n", report.GeneratedAt.Format(time.RFC3339))
	p.printf("Periods Per Year:      %g\n", report.PeriodsPerYear)
	p.printf("Risk-Free Rate:        %g\n", report.RiskFreeRate)

	for _, sr := range report.Symbols {
		p.printSeries(sr)
	}
	p.printSeries(report.Total)
	p.printf("==============================\n")
	return p.err
}

type reportPrinter struct {
	w   io.Writer
	err error
}

func (p *reportPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *reportPrinter) printSeries(sr SeriesReport) {
	p.printf("\n-- %s --\n", sr.Name)
	switch {
	case sr.Err != nil:
		p.printf("Unavailable:           %v\n", sr.Err)
		p.printTrades(sr)
		return
	case sr.NoData:
		p.printf("No data:               nothing to calculate performance over\n")
		return
	}
	p.printf("Periods:               %d\n", sr.Periods)
	p.printf("Initial Value:         %.2f\n", sr.InitialValue)
	p.printf("Final Value:           %.2f\n", sr.FinalValue)
	p.printf("Total Return:          %s\n", sr.TotalReturn)
	p.printf("Annualized Return:     %s\n", sr.AnnualizedReturn)
	p.printf("Annualized Volatility: %s\n", sr.AnnualizedVolatility)
	p.printf("Sharpe Ratio:          %s\n", sr.SharpeRatio)
	p.printf("Sortino Ratio:         %s\n", sr.SortinoRatio)
	p.printf("Max Drawdown:          %s\n", sr.MaxDrawdown)
	p.printTrades(sr)
}

func (p *reportPrinter) printTrades(sr SeriesReport) {
	p.printf("Total Trades:          %d\n", sr.TotalTrades)
	p.printf("Total Fees:            %s\n", sr.TotalFees.StringFixed(2))
}
