package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// barColumns are read as text so prices keep their exact decimal value.
var barColumns = []string{
	"symbol",
	"time",
	"CAST(open AS VARCHAR)",
	"CAST(high AS VARCHAR)",
	"CAST(low AS VARCHAR)",
	"CAST(close AS VARCHAR)",
	"CAST(volume AS VARCHAR)",
}

// DuckDBDataSource reads bars from a local parquet or CSV file through an
// in-process DuckDB view named market_data. The file needs the columns
// symbol, time, open, high, low, close and volume.
type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBDataSource opens an in-memory DuckDB database.
func NewDuckDBDataSource(log *logger.Logger) (*DuckDBDataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize points the market_data view at path. Files ending in .csv are
// read with CSV auto detection, anything else as parquet.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "market data file %s is not readable", path)
	}

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		reader = "read_csv_auto"
	}

	// squirrel has no CREATE VIEW support
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read market data from %s", path)
	}

	return nil
}

// FetchData implements DataSource.
func (d *DuckDBDataSource) FetchData(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	query, args, err := d.sq.
		Select(barColumns...).
		From("market_data").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.GtOrEq{"time": start},
			squirrel.LtOrEq{"time": end},
		}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query bars for %s", symbol)
	}
	defer rows.Close()

	bars := make([]types.Bar, 0, 256)

	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return bars, nil
}

// Symbols returns every distinct symbol in the file.
func (d *DuckDBDataSource) Symbols(ctx context.Context) ([]string, error) {
	query, args, err := d.sq.
		Select("DISTINCT symbol").
		From("market_data").
		OrderBy("symbol ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// Count returns the number of rows within the optional bounds.
func (d *DuckDBDataSource) Count(ctx context.Context, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	conditions := squirrel.And{}

	if start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{"time": end.Unwrap()})
	}

	builder := d.sq.Select("COUNT(*)").From("market_data")
	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count rows", err)
	}

	return count, nil
}

// Close implements io.Closer.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func scanBar(rows *sql.Rows) (types.Bar, error) {
	var (
		symbol                         string
		timestamp                      time.Time
		open, high, low, close, volume string
	)

	if err := rows.Scan(&symbol, &timestamp, &open, &high, &low, &close, &volume); err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
	}

	values := make([]decimal.Decimal, 0, 5)

	for _, text := range []string{open, high, low, close, volume} {
		value, err := decimal.NewFromString(text)
		if err != nil {
			return types.Bar{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "bar %s at %s has a non-numeric value %q", symbol, timestamp, text)
		}

		values = append(values, value)
	}

	return types.Bar{
		Symbol:           symbol,
		Time:             timestamp.UTC(),
		Open:             values[0],
		High:             values[1],
		Low:              values[2],
		Close:            values[3],
		Volume:           values[4],
		SplitAdjusted:    false,
		DividendAdjusted: false,
	}, nil
}
