package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/vicanso/go-charts/v2"
)

var ErrNoChartData = errors.New("no value history to plot")

// RenderEquityChart draws every symbol's per-row value, plus the total when it
// is defined, as a PNG line chart. Symbols without rows are left out; the rest
// must share their row timestamps, otherwise ErrHistoryLengthMismatch or
// ErrHistoryCadenceMismatch is returned.
func (e *Engine) RenderEquityChart() ([]byte, error) {
	var plotted []string
	for _, symbol := range e.symbols {
		if len(e.runs[symbol].daily) > 0 {
			plotted = append(plotted, symbol)
		}
	}
	if len(plotted) == 0 {
		return nil, ErrNoChartData
	}
	if err := e.checkAligned(plotted); err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}

	labels := make([]string, len(e.runs[plotted[0]].timestamps))
	for i, ts := range e.runs[plotted[0]].timestamps {
		labels[i] = ts.Format("2006-01-02")
	}
	values := make([][]float64, 0, len(plotted)+1)
	names := append([]string(nil), plotted...)
	for _, symbol := range plotted {
		values = append(values, decimalsToFloats(e.runs[symbol].daily))
	}
	if total, err := e.TotalPortfolioValues(); err == nil && len(values) > 1 {
		values = append(values, decimalsToFloats(total))
		names = append(names, TotalSeriesName)
	}

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc("Portfolio Value"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return painter.Bytes()
}

func (e *Engine) WriteEquityChart(path string) error {
	img, err := e.RenderEquityChart()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
