package main

import (
	"backtrader/internal/datasource"
	"backtrader/internal/engine"
	"backtrader/internal/logger"
	"backtrader/internal/repository"
	"backtrader/types"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	lg, err := logger.NewLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	config, err := loadAppConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	feed, closeFeed, err := newFeed(ctx, config.Data, lg.Named("data"))
	if err != nil {
		return err
	}
	defer closeFeed()

	source, err := newStrategy(config.Strategy)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(config.Engine, feed, lg.Named("engine"))
	if err != nil {
		return err
	}

	symbol := optional.None[string]()
	if s := cmd.String("symbol"); s != "" {
		symbol = optional.Some(s)
	}

	// Failed symbols are reported but do not hide the results of the others.
	runErr := eng.Backtest(ctx, symbol, source)
	if runErr != nil {
		lg.Warn("Backtest finished with errors", zap.Error(runErr))
	}

	eng.PrintReport(eng.PerformanceReport())

	if dir := config.Engine.Reporting.CSVDir; dir != "" {
		if err := eng.WriteCSVReports(dir); err != nil {
			return err
		}
		lg.Info("CSV reports written", zap.String("dir", dir))
	}
	if path := config.Engine.Reporting.ChartPath; path != "" {
		switch err := eng.WriteEquityChart(path); {
		case errors.Is(err, engine.ErrNoChartData):
			lg.Warn("Nothing to chart", zap.String("path", path))
		case errors.Is(err, engine.ErrHistoryLengthMismatch), errors.Is(err, engine.ErrHistoryCadenceMismatch):
			lg.Warn("Symbol histories are not aligned, chart skipped", zap.String("path", path), zap.Error(err))
		case err != nil:
			return err
		default:
			lg.Info("Equity chart written", zap.String("path", path))
		}
	}
	return runErr
}

// newFeed opens the configured candle source. The returned func releases it.
func newFeed(ctx context.Context, c dataConfig, lg *logger.Logger) (engine.CandleFeed, func(), error) {
	interval := types.Day
	if c.Interval != "" {
		var err error
		if interval, err = types.ParseInterval(c.Interval); err != nil {
			return nil, nil, err
		}
	}
	start, end, err := c.timeRange()
	if err != nil {
		return nil, nil, err
	}

	switch c.Source {
	case "file":
		unit, err := datasource.ParseTimestampUnit(c.TimestampUnit)
		if err != nil {
			return nil, nil, err
		}
		feed, err := datasource.NewFileFeed(c.Path, unit, interval, lg)
		if err != nil {
			return nil, nil, err
		}
		feed.WithRange(start, end)
		return feed, func() { _ = feed.Close() }, nil

	case "postgres":
		db, err := repository.NewDatabase(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", engine.ErrDataSourceUnavailable, err)
		}
		return engine.NewDatabaseFeed(db, interval, start, end), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", c.Source)
}

func main() {
	cmd := &cli.Command{
		Name:  "backtester",
		Usage: "Replay a signal strategy over historical candles and report its performance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML backtest configuration",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Only backtest this configured symbol",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log every executed trade",
			},
		},
		Action: backtestAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
