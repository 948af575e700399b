package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// dbtx is the subset of *pgxpool.Pool the queries need.
type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type queries struct {
	db dbtx
	sq squirrel.StatementBuilderType
}

type assetRow struct {
	ID         int32      `db:"id"`
	Ticker     string     `db:"ticker"`
	Name       string     `db:"name"`
	Type       string     `db:"type"`
	CreatedAt  *time.Time `db:"created_at"`
	ModifiedAt *time.Time `db:"modified_at"`
}

type aggregatesParams struct {
	TimeBucket string
	AssetID    int32
	StartTime  time.Time
	EndTime    time.Time
}

type aggregateRow struct {
	Bucket  time.Time       `db:"bucket"`
	AssetID int32           `db:"asset_id"`
	Open    decimal.Decimal `db:"open"`
	High    decimal.Decimal `db:"high"`
	Low     decimal.Decimal `db:"low"`
	Close   decimal.Decimal `db:"close"`
	Volume  decimal.Decimal `db:"volume"`
}

func (q *queries) assetByTickerQuery(ticker string) (string, []any, error) {
	return q.sq.
		Select("id", "ticker", "name", "type", "created_at", "modified_at").
		From("assets").
		Where(squirrel.Eq{"ticker": ticker}).
		Limit(1).
		ToSql()
}

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	query, args, err := q.assetByTickerQuery(ticker)
	if err != nil {
		return assetRow{}, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return assetRow{}, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[assetRow])
}

// aggregatesQuery rolls the stored candles up into TimescaleDB time buckets
// over the half-open range [StartTime, EndTime).
func (q *queries) aggregatesQuery(arg aggregatesParams) (string, []any, error) {
	return q.sq.
		Select().
		Column(squirrel.Expr("time_bucket(?::interval, time) AS bucket", arg.TimeBucket)).
		Columns(
			"asset_id",
			"first(open, time) AS open",
			"max(high) AS high",
			"min(low) AS low",
			"last(close, time) AS close",
			"sum(volume) AS volume",
		).
		From("candles").
		Where(squirrel.And{
			squirrel.Eq{"asset_id": arg.AssetID},
			squirrel.GtOrEq{"time": arg.StartTime},
			squirrel.Lt{"time": arg.EndTime},
		}).
		GroupBy("bucket", "asset_id").
		OrderBy("bucket ASC").
		ToSql()
}

func (q *queries) GetAggregates(ctx context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	query, args, err := q.aggregatesQuery(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[aggregateRow])
}
