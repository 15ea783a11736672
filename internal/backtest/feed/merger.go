// Package feed turns per-symbol bar sequences into the single chronological
// stream the backtest loop consumes.
package feed

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/types"
	"github.com/moznion/go-optional"
)

// Entry is one bar of the merged stream together with its position inside
// its own symbol's sequence.
type Entry struct {
	Bar types.Bar
	// Symbol is the series key the bar came from.
	Symbol string
	// SymbolIndex is the index of Bar within the input slice of its symbol.
	SymbolIndex int
}

// Merge returns every bar of every symbol ordered by timestamp. Bars sharing a
// timestamp follow the symbol order given by symbols, then the symbol name for
// series not listed there. Bars of one symbol keep their input order.
func Merge(series map[string][]types.Bar, symbols []string) []types.Bar {
	entries := MergeIndexed(series, symbols)

	bars := make([]types.Bar, len(entries))
	for i, entry := range entries {
		bars[i] = entry.Bar
	}

	return bars
}

// MergeIndexed is Merge but keeps the per-symbol index of every bar so the
// caller can slice the symbol's visible history without searching.
func MergeIndexed(series map[string][]types.Bar, symbols []string) []Entry {
	total := 0
	for _, bars := range series {
		total += len(bars)
	}

	rank := make(map[string]int, len(symbols))
	for i, symbol := range symbols {
		if _, seen := rank[symbol]; !seen {
			rank[symbol] = i
		}
	}

	entries := make([]Entry, 0, total)
	for _, symbol := range Symbols(series) {
		for i, bar := range series[symbol] {
			entries = append(entries, Entry{Bar: bar, Symbol: symbol, SymbolIndex: i})
		}
	}

	rankOf := func(symbol string) int {
		if r, ok := rank[symbol]; ok {
			return r
		}

		return len(symbols)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.Bar.Time.Compare(b.Bar.Time); c != 0 {
			return c
		}

		if c := cmp.Compare(rankOf(a.Symbol), rankOf(b.Symbol)); c != 0 {
			return c
		}

		if c := strings.Compare(a.Symbol, b.Symbol); c != 0 {
			return c
		}

		return cmp.Compare(a.SymbolIndex, b.SymbolIndex)
	})

	return entries
}

// Filter keeps the bars whose timestamp falls within [start, end]. Missing
// bounds are open.
func Filter(bars []types.Bar, start optional.Option[time.Time], end optional.Option[time.Time]) []types.Bar {
	filtered := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if start.IsSome() && bar.Time.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && bar.Time.After(end.Unwrap()) {
			continue
		}

		filtered = append(filtered, bar)
	}

	return filtered
}

// Symbols returns the sorted keys of series.
func Symbols(series map[string][]types.Bar) []string {
	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}

	slices.Sort(symbols)

	return symbols
}
