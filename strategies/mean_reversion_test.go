package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/backtester/backtest"
)

func TestMeanReversionRoundTrip(t *testing.T) {
	// Bar 3 dips to z ~ -1.15, bar 4 recovers to z ~ +0.93.
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {10, 10, 10, 7, 12},
	})

	strat, err := NewMeanReversion([]string{"AAPL"}, 3, -1, 0.5, 1.0)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	require.Len(t, res.Trades, 2)

	buy, sell := res.Trades[0], res.Trades[1]
	assert.Equal(t, backtest.Buy, buy.Side)
	assert.Equal(t, "2024-01-04", buy.Date.Format("2006-01-02"))
	assert.InDelta(t, 7.0, buy.Price, 1e-9)
	assert.Equal(t, int64(14285), buy.Quantity)

	assert.Equal(t, backtest.Sell, sell.Side)
	assert.Equal(t, "2024-01-05", sell.Date.Format("2006-01-02"))
	assert.InDelta(t, 12.0, sell.Price, 1e-9)
	assert.Equal(t, int64(14285), sell.Quantity)

	// 5 leftover cash + 14285 * 12 proceeds.
	assert.InDelta(t, 171425, res.FinalEquity(), 1e-9)
	assert.InDelta(t, 1.0, res.Metrics.WinRate, 1e-12)
}

func TestMeanReversionFlatWindowNoSignal(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{
		"AAPL": {10, 10, 10, 10, 10},
	})

	strat, err := NewMeanReversion([]string{"AAPL"}, 3, -1, 0.5, 1.0)
	require.NoError(t, err)
	res := run(t, tbl, 100000, nil, strat)

	assert.Empty(t, res.Trades)
}

func TestMeanReversionValidation(t *testing.T) {
	_, err := NewMeanReversion([]string{"AAPL"}, 1, -1, 0.5, 1.0)
	assert.Error(t, err)

	_, err = NewMeanReversion([]string{"AAPL"}, 20, 1.0, 0.5, 1.0)
	assert.Error(t, err)

	_, err = NewMeanReversion([]string{"AAPL"}, 20, -2, 0.5, 1.5)
	assert.Error(t, err)
}
