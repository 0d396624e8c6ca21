package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/backtester/backtest"
)

func TestRSIRoundTrip(t *testing.T) {
	// Three straight losses drive RSI to 0 on bar 3; three straight gains
	// drive it to 100 on bar 6.
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 90, 80, 70, 80, 90, 100},
	})

	strat, err := NewRSI([]string{"AAPL"}, 3, 30, 70, 1.0)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	require.Len(t, res.Trades, 2)

	buy, sell := res.Trades[0], res.Trades[1]
	assert.Equal(t, backtest.Buy, buy.Side)
	assert.Equal(t, "2024-01-04", buy.Date.Format("2006-01-02"))
	assert.InDelta(t, 70.0, buy.Price, 1e-9)
	assert.Equal(t, int64(1428), buy.Quantity)

	assert.Equal(t, backtest.Sell, sell.Side)
	assert.Equal(t, "2024-01-07", sell.Date.Format("2006-01-02"))
	assert.InDelta(t, 100.0, sell.Price, 1e-9)

	// 40 leftover cash + 1428 * 100 proceeds.
	assert.InDelta(t, 142840, res.FinalEquity(), 1e-9)
}

func TestRSIThresholdsAreStrict(t *testing.T) {
	// Mixed moves hold RSI between the thresholds, so nothing trades.
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 90, 100, 90, 100, 90, 100},
	})

	strat, err := NewRSI([]string{"AAPL"}, 3, 30, 70, 1.0)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	assert.Empty(t, res.Trades)
}

func TestRSINoEntryWhileHolding(t *testing.T) {
	// RSI stays at 0 for two consecutive bars; only the first triggers a buy.
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 90, 80, 70, 60},
	})

	strat, err := NewRSI([]string{"AAPL"}, 3, 30, 70, 0.5)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	require.Len(t, res.Trades, 1)
	assert.Equal(t, backtest.Buy, res.Trades[0].Side)
}
