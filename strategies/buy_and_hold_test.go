package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/backtester/backtest"
)

func TestBuyAndHoldSingleTicker(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 102, 105, 108, 110},
	})

	strat, err := NewBuyAndHold([]string{"AAPL"}, nil)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	require.Len(t, res.Trades, 1)
	assert.Equal(t, backtest.Buy, res.Trades[0].Side)
	assert.Equal(t, int64(1000), res.Trades[0].Quantity)
	assert.InDelta(t, 100.0, res.Trades[0].Price, 1e-9)

	assert.InDelta(t, 110000, res.FinalEquity(), 1e-9)
	assert.InDelta(t, 0.10, res.Metrics.TotalReturn, 1e-12)
}

func TestBuyAndHoldWithCommission(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 100, 100},
	})

	strat, err := NewBuyAndHold([]string{"AAPL"}, nil)
	require.NoError(t, err)
	res := run(t, tbl, 100000, backtest.Proportional{Rate: 0.01}, strat)

	// 1000 shares would cost 101000 with the fee; 990 is the largest
	// whole-share quantity that fits.
	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(990), res.Trades[0].Quantity)
	assert.InDelta(t, 990.0, res.Trades[0].Commission, 1e-9)

	// cash 10 + 990 * 100
	assert.InDelta(t, 99010, res.EquityCurve[0].Equity, 1e-9)
	assert.InDelta(t, 99010, res.FinalEquity(), 1e-9)
}

func TestBuyAndHoldWeights(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 100},
		"MSFT": {200, 200},
	})

	strat, err := NewBuyAndHold(
		[]string{"AAPL", "MSFT"},
		map[string]float64{"AAPL": 0.75, "MSFT": 0.25},
	)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	require.Len(t, res.Trades, 2)
	assert.Equal(t, "AAPL", res.Trades[0].Ticker)
	assert.Equal(t, int64(750), res.Trades[0].Quantity)
	assert.Equal(t, "MSFT", res.Trades[1].Ticker)
	assert.Equal(t, int64(125), res.Trades[1].Quantity)
}

func TestBuyAndHoldBuysOnlyOnce(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {100, 50, 25, 10},
	})

	strat, err := NewBuyAndHold([]string{"AAPL"}, nil)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	assert.Len(t, res.Trades, 1)
	assert.InDelta(t, 10000, res.FinalEquity(), 1e-9)
	assert.InDelta(t, -0.90, res.Metrics.MaxDrawdown, 1e-9)
}

func TestBuyAndHoldRejectsNegativeWeight(t *testing.T) {
	_, err := NewBuyAndHold([]string{"AAPL"}, map[string]float64{"AAPL": -0.5})
	assert.Error(t, err)
}
