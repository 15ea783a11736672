// Package datasource loads historical bars for the backtest host. The
// backtest core never calls it; bars are fetched up front and handed to the
// engine as a map keyed by symbol.
package datasource

import (
	"context"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
	"go.uber.org/zap"
)

type DataSource interface {
	// FetchData returns the bars of symbol within [start, end] in time order.
	// An unknown symbol yields an empty slice, not an error.
	FetchData(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error)
}

// LoadAll fetches and validates the bars of every symbol. Symbols without
// bars are left out of the map so the engine can report them.
func LoadAll(ctx context.Context, source DataSource, symbols []string, start time.Time, end time.Time, log *logger.Logger) (map[string][]types.Bar, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	bars := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "loading bars cancelled", err)
		}

		series, err := source.FetchData(ctx, symbol, start, end)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to fetch bars for %s", symbol)
		}

		if len(series) == 0 {
			log.Warn("No bars found", zap.String("symbol", symbol), zap.Time("start", start), zap.Time("end", end))

			continue
		}

		if err := types.ValidateBars(series); err != nil {
			return nil, err
		}

		log.Debug("Loaded bars", zap.String("symbol", symbol), zap.Int("count", len(series)))
		bars[symbol] = series
	}

	return bars, nil
}
