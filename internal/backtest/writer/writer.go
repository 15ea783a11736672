// Package writer persists backtest results: a stats.yaml with the metrics and
// configuration plus trades.parquet and equity.parquet exported through an
// in-memory DuckDB database.
package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/version"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"go.uber.org/zap"
)

const (
	StatsFileName  = "stats.yaml"
	TradesFileName = "trades.parquet"
	EquityFileName = "equity.parquet"
)

const createTradesTable = `
	CREATE TABLE trades (
		strategy_id TEXT,
		symbol TEXT,
		entry_time TIMESTAMP,
		exit_time TIMESTAMP,
		entry_price DOUBLE,
		exit_price DOUBLE,
		shares BIGINT,
		pnl DOUBLE,
		pnl_pct DOUBLE,
		duration_days INTEGER,
		exit_reason TEXT,
		commission DOUBLE,
		slippage DOUBLE
	)
`

const createEquityTable = `
	CREATE TABLE equity (
		timestamp TIMESTAMP,
		value DOUBLE
	)
`

// Paths lists the files written for one result.
type Paths struct {
	Dir    string
	Stats  string
	Trades string
	Equity string
}

func newPaths(dir string) Paths {
	return Paths{
		Dir:    dir,
		Stats:  filepath.Join(dir, StatsFileName),
		Trades: filepath.Join(dir, TradesFileName),
		Equity: filepath.Join(dir, EquityFileName),
	}
}

// ResultWriter writes results below an output directory, one sub directory
// per run id.
type ResultWriter struct {
	outputDir string
	log       *logger.Logger
	sq        squirrel.StatementBuilderType
}

func NewResultWriter(outputDir string, log *logger.Logger) *ResultWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &ResultWriter{
		outputDir: outputDir,
		log:       log.Named("writer"),
		sq:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WriteBacktest persists a single strategy result.
func (w *ResultWriter) WriteBacktest(result types.BacktestResult) (Paths, error) {
	paths := newPaths(filepath.Join(w.outputDir, result.RunID))

	stats := Stats{
		SchemaVersion:        version.SchemaVersion,
		EngineVersion:        version.GetVersion(),
		RunID:                result.RunID,
		StrategyID:           result.StrategyID,
		StrategyName:         result.StrategyName,
		Config:               result.Config,
		Metrics:              result.Metrics,
		Comparison:           nil,
		DataWarnings:         result.DataWarnings,
		ExecutionTimeSeconds: result.ExecutionTimeSeconds,
		CompletedAt:          result.CompletedAt,
		TradesFilePath:       paths.Trades,
		EquityFilePath:       paths.Equity,
	}

	if err := w.write(paths, stats, result.Trades, result.EquityCurve); err != nil {
		return Paths{}, err
	}

	return paths, nil
}

// WriteOrchestrator persists the portfolio view in the run directory and
// each strategy in a sub directory named by its id.
func (w *ResultWriter) WriteOrchestrator(result types.OrchestratorResult) (Paths, error) {
	paths := newPaths(filepath.Join(w.outputDir, result.RunID))

	stats := Stats{
		SchemaVersion:        version.SchemaVersion,
		EngineVersion:        version.GetVersion(),
		RunID:                result.RunID,
		StrategyID:           "",
		StrategyName:         "",
		Config:               result.Config,
		Metrics:              result.Metrics,
		Comparison:           result.Comparison,
		DataWarnings:         result.DataWarnings,
		ExecutionTimeSeconds: result.ExecutionTimeSeconds,
		CompletedAt:          result.CompletedAt,
		TradesFilePath:       paths.Trades,
		EquityFilePath:       paths.Equity,
	}

	if err := w.write(paths, stats, result.Trades, result.EquityCurve); err != nil {
		return Paths{}, err
	}

	for _, id := range result.StrategyIDs() {
		strategyResult := result.StrategyResults[id]
		strategyPaths := newPaths(filepath.Join(paths.Dir, id))

		strategyStats := Stats{
			SchemaVersion:        version.SchemaVersion,
			EngineVersion:        version.GetVersion(),
			RunID:                strategyResult.RunID,
			StrategyID:           strategyResult.StrategyID,
			StrategyName:         strategyResult.StrategyName,
			Config:               strategyResult.Config,
			Metrics:              strategyResult.Metrics,
			Comparison:           nil,
			DataWarnings:         strategyResult.DataWarnings,
			ExecutionTimeSeconds: strategyResult.ExecutionTimeSeconds,
			CompletedAt:          strategyResult.CompletedAt,
			TradesFilePath:       strategyPaths.Trades,
			EquityFilePath:       strategyPaths.Equity,
		}

		if err := w.write(strategyPaths, strategyStats, strategyResult.Trades, strategyResult.EquityCurve); err != nil {
			return Paths{}, err
		}
	}

	return paths, nil
}

func (w *ResultWriter) write(paths Paths, stats Stats, trades []types.Trade, equity []types.EquityPoint) error {
	if err := os.MkdirAll(paths.Dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create result directory %s", paths.Dir)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	if err := w.writeTrades(db, paths.Trades, trades); err != nil {
		return err
	}

	if err := w.writeEquity(db, paths.Equity, equity); err != nil {
		return err
	}

	if err := WriteStats(paths.Stats, stats); err != nil {
		return err
	}

	w.log.Debug("Result written",
		zap.String("dir", paths.Dir),
		zap.Int("trades", len(trades)),
		zap.Int("equity_points", len(equity)),
	)

	return nil
}

func (w *ResultWriter) writeTrades(db *sql.DB, path string, trades []types.Trade) error {
	if _, err := db.Exec(createTradesTable); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create trades table", err)
	}

	if len(trades) > 0 {
		insert := w.sq.Insert("trades").Columns(
			"strategy_id", "symbol", "entry_time", "exit_time", "entry_price", "exit_price", "shares",
			"pnl", "pnl_pct", "duration_days", "exit_reason", "commission", "slippage",
		)

		for _, trade := range trades {
			insert = insert.Values(
				trade.StrategyID,
				trade.Symbol,
				trade.EntryTime,
				trade.ExitTime,
				trade.EntryPrice.InexactFloat64(),
				trade.ExitPrice.InexactFloat64(),
				trade.Shares,
				trade.PnL.InexactFloat64(),
				trade.PnLPercent,
				trade.DurationDays,
				string(trade.ExitReason),
				trade.Commission.InexactFloat64(),
				trade.Slippage.InexactFloat64(),
			)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to build trades insert", err)
		}

		if _, err := db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to insert trades", err)
		}
	}

	return exportToParquet(db, "SELECT * FROM trades ORDER BY entry_time ASC", path)
}

func (w *ResultWriter) writeEquity(db *sql.DB, path string, equity []types.EquityPoint) error {
	if _, err := db.Exec(createEquityTable); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create equity table", err)
	}

	if len(equity) > 0 {
		insert := w.sq.Insert("equity").Columns("timestamp", "value")

		for _, point := range equity {
			insert = insert.Values(point.Time, point.Value.InexactFloat64())
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to build equity insert", err)
		}

		if _, err := db.Exec(query, args...); err != nil {
			return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to insert equity curve", err)
		}
	}

	// rowid keeps bar order for equal timestamps
	return exportToParquet(db, "SELECT * FROM equity ORDER BY rowid ASC", path)
}

// exportToParquet uses raw SQL as squirrel does not support COPY.
func exportToParquet(db *sql.DB, query string, path string) error {
	_, err := db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (FORMAT PARQUET)`, query, strings.ReplaceAll(path, "'", "''")))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to export %s", path)
	}

	return nil
}
