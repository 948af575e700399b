// Package datasource loads candles from local CSV or Parquet files through an
// in-memory DuckDB instance.
package datasource

import (
	"backtrader/internal/logger"
	"backtrader/types"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

var (
	ErrNoDataFile           = errors.New("no candle file for ticker")
	ErrUnknownTimestampUnit = errors.New("unknown timestamp unit")
)

// TimestampUnit tells how the timestamp column of a file is encoded.
type TimestampUnit string

const (
	UnitSeconds      TimestampUnit = "s"
	UnitMilliseconds TimestampUnit = "ms"
	// UnitNative leaves the column to DuckDB's own type detection, for files
	// that already store DATE or TIMESTAMP values.
	UnitNative TimestampUnit = "native"
)

func ParseTimestampUnit(s string) (TimestampUnit, error) {
	switch u := TimestampUnit(s); u {
	case "":
		return UnitSeconds, nil
	case UnitSeconds, UnitMilliseconds, UnitNative:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimestampUnit, s)
}

func (u TimestampUnit) expr() (string, error) {
	switch u {
	case UnitSeconds, "":
		return `epoch_ms(CAST("timestamp" AS BIGINT) * 1000)`, nil
	case UnitMilliseconds:
		return `epoch_ms(CAST("timestamp" AS BIGINT))`, nil
	case UnitNative:
		return `CAST("timestamp" AS TIMESTAMP)`, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimestampUnit, string(u))
}

// FileFeed serves candles from <Dir>/<TICKER>.parquet or <Dir>/<TICKER>.csv.
// Files carry the columns timestamp, open, high, low, close and volume.
type FileFeed struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	log    *logger.Logger
	tsExpr string

	Dir      string
	Interval types.Interval
	Start    optional.Option[time.Time]
	End      optional.Option[time.Time]
}

func NewFileFeed(dir string, unit TimestampUnit, interval types.Interval, log *logger.Logger) (*FileFeed, error) {
	tsExpr, err := unit.expr()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &FileFeed{
		db:       db,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log:      log,
		tsExpr:   tsExpr,
		Dir:      dir,
		Interval: interval,
		Start:    optional.None[time.Time](),
		End:      optional.None[time.Time](),
	}, nil
}

// WithRange limits the candles to start <= timestamp < end. A zero time leaves
// that side open.
func (f *FileFeed) WithRange(start, end time.Time) *FileFeed {
	if !start.IsZero() {
		f.Start = optional.Some(start)
	}
	if !end.IsZero() {
		f.End = optional.Some(end)
	}
	return f
}

func (f *FileFeed) GetCandles(ctx context.Context, ticker string) ([]types.Candle, error) {
	source, err := f.resolve(ticker)
	if err != nil {
		return nil, err
	}
	f.log.Debug("Reading candles", zap.String("ticker", ticker), zap.String("source", source))

	query, args, err := f.candlesQuery(source)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candles of %s: %w", ticker, err)
	}
	defer rows.Close()

	var candles []types.Candle
	for rows.Next() {
		c := types.Candle{Ticker: ticker, Interval: f.Interval}
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle of %s: %w", ticker, err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read candles of %s: %w", ticker, err)
	}

	f.log.Debug("Read candles", zap.String("ticker", ticker), zap.Int("count", len(candles)))
	return candles, nil
}

// resolve picks the table function reading ticker's file. Parquet wins when
// both files exist.
func (f *FileFeed) resolve(ticker string) (string, error) {
	for _, c := range []struct{ ext, reader string }{
		{".parquet", "read_parquet"},
		{".csv", "read_csv_auto"},
	} {
		path := filepath.Join(f.Dir, ticker+c.ext)
		if _, err := os.Stat(path); err == nil {
			return fmt.Sprintf("%s('%s')", c.reader, strings.ReplaceAll(path, "'", "''")), nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNoDataFile, ticker, f.Dir)
}

func (f *FileFeed) candlesQuery(source string) (string, []any, error) {
	inner := f.sq.
		Select(
			f.tsExpr+" AS ts",
			"CAST(open AS DOUBLE) AS open",
			"CAST(high AS DOUBLE) AS high",
			"CAST(low AS DOUBLE) AS low",
			"CAST(close AS DOUBLE) AS close",
			"CAST(volume AS DOUBLE) AS volume",
		).
		From(source)

	q := f.sq.
		Select("ts", "open", "high", "low", "close", "volume").
		FromSelect(inner, "c")
	if f.Start.IsSome() {
		q = q.Where(squirrel.GtOrEq{"ts": f.Start.Unwrap()})
	}
	if f.End.IsSome() {
		q = q.Where(squirrel.Lt{"ts": f.End.Unwrap()})
	}
	return q.OrderBy("ts ASC").ToSql()
}

func (f *FileFeed) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
