package datasource

import (
	"context"
	"slices"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/feed"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/moznion/go-optional"
)

// InMemoryDataSource serves bars held in memory, mostly for tests and
// synthetic data.
type InMemoryDataSource struct {
	bars map[string][]types.Bar
}

func NewInMemoryDataSource(bars map[string][]types.Bar) *InMemoryDataSource {
	copied := make(map[string][]types.Bar, len(bars))
	for symbol, series := range bars {
		sorted := slices.Clone(series)
		slices.SortStableFunc(sorted, func(a, b types.Bar) int {
			return a.Time.Compare(b.Time)
		})
		copied[symbol] = sorted
	}

	return &InMemoryDataSource{
		bars: copied,
	}
}

// FetchData implements DataSource.
func (m *InMemoryDataSource) FetchData(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return feed.Filter(m.bars[symbol], optional.Some(start), optional.Some(end)), nil
}
