// Package market holds historical price data for backtesting.
package market

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Table is a rectangular price history: one row per trading date, one column
// of closing prices per ticker. Missing prices are stored as NaN and treated
// as "no fill possible" on that date.
//
// Rows are strictly ascending by date. A Table is immutable after
// construction; the slicing helpers return views that share the backing
// arrays.
type Table struct {
	dates   []time.Time
	tickers []string
	cols    map[string][]float64
}

// New builds a Table from ascending dates and per-ticker price columns.
// Every column must have exactly one value per date; use NaN for gaps.
func New(dates []time.Time, cols map[string][]float64) (*Table, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("market: table has no dates")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("market: dates not strictly ascending at row %d (%s >= %s)",
				i, dates[i-1].Format("2006-01-02"), dates[i].Format("2006-01-02"))
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("market: table has no tickers")
	}

	tickers := make([]string, 0, len(cols))
	for ticker, col := range cols {
		if len(col) != len(dates) {
			return nil, fmt.Errorf("market: column %q has %d rows, want %d", ticker, len(col), len(dates))
		}
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	return &Table{dates: dates, tickers: tickers, cols: cols}, nil
}

// Len returns the number of rows (bars).
func (t *Table) Len() int { return len(t.dates) }

// Date returns the date of row i.
func (t *Table) Date(i int) time.Time { return t.dates[i] }

// Dates returns all row dates in ascending order.
func (t *Table) Dates() []time.Time { return t.dates }

// Tickers returns the ticker symbols in sorted order.
func (t *Table) Tickers() []string { return t.tickers }

// Price returns the price of ticker at row i. The second return value is
// false for unknown tickers and for NaN (missing) cells.
func (t *Table) Price(i int, ticker string) (float64, bool) {
	col, ok := t.cols[ticker]
	if !ok || i < 0 || i >= len(col) {
		return 0, false
	}
	px := col[i]
	if math.IsNaN(px) {
		return 0, false
	}
	return px, true
}

// Series returns the price column for ticker up to and including row end.
// The slice aliases the table's backing array and must not be modified.
// Missing cells appear as NaN.
func (t *Table) Series(ticker string, end int) []float64 {
	col, ok := t.cols[ticker]
	if !ok {
		return nil
	}
	if end >= len(col) {
		end = len(col) - 1
	}
	if end < 0 {
		return nil
	}
	return col[:end+1]
}

// UpTo returns a view containing rows 0..i. This is how the engine hands a
// strategy its visible history: rows after i do not exist in the view, so a
// strategy cannot look ahead.
func (t *Table) UpTo(i int) *Table {
	if i >= len(t.dates) {
		i = len(t.dates) - 1
	}
	cols := make(map[string][]float64, len(t.cols))
	for ticker, col := range t.cols {
		cols[ticker] = col[:i+1]
	}
	return &Table{dates: t.dates[:i+1], tickers: t.tickers, cols: cols}
}

// Between returns a view restricted to rows with start <= date <= end.
// Zero time bounds are open. The view may be empty.
func (t *Table) Between(start, end time.Time) *Table {
	lo, hi := 0, len(t.dates)
	if !start.IsZero() {
		lo = sort.Search(len(t.dates), func(i int) bool { return !t.dates[i].Before(start) })
	}
	if !end.IsZero() {
		hi = sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(end) })
	}
	if lo > hi {
		lo = hi
	}
	cols := make(map[string][]float64, len(t.cols))
	for ticker, col := range t.cols {
		cols[ticker] = col[lo:hi]
	}
	return &Table{dates: t.dates[lo:hi], tickers: t.tickers, cols: cols}
}
