package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/market"
)

func dailyTable(t *testing.T, cols map[string][]float64) *market.Table {
	t.Helper()

	n := 0
	for _, col := range cols {
		n = len(col)
		break
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	tbl, err := market.New(dates, cols)
	require.NoError(t, err)
	return tbl
}

func run(t *testing.T, tbl *market.Table, cash float64, commission backtest.CommissionModel, strat backtest.Strategy) *backtest.Result {
	t.Helper()
	e, err := backtest.New(tbl, backtest.Config{InitialCash: cash, Commission: commission})
	require.NoError(t, err)
	res, err := e.Run(strat)
	require.NoError(t, err)
	return res
}

func TestByName(t *testing.T) {
	p := Params{Tickers: []string{"AAPL", "MSFT", "NVDA"}}

	for _, name := range Names() {
		s, err := ByName(name, p)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	s, err := ByName("  MACross ", p)
	require.NoError(t, err)
	assert.Equal(t, "ma-cross", s.Name())

	_, err = ByName("turtle", p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "turtle")
}

func TestByNameRejectsBadParams(t *testing.T) {
	_, err := ByName("ma-cross", Params{Tickers: []string{"AAPL"}, ShortWindow: 50, LongWindow: 20})
	assert.Error(t, err)

	_, err = ByName("momentum", Params{Tickers: []string{"AAPL"}, TopN: 5})
	assert.Error(t, err)

	_, err = ByName("rsi", Params{Tickers: []string{"AAPL"}, Oversold: 80, Overbought: 20})
	assert.Error(t, err)

	_, err = ByName("buy-and-hold", Params{})
	assert.Error(t, err)
}

func TestNoopNeverTrades(t *testing.T) {
	tbl := dailyTable(t, map[string][]float64{"AAPL": {100, 120, 80, 150}})
	res := run(t, tbl, 100000, nil, Noop{})

	assert.Empty(t, res.Trades)
	assert.InDelta(t, 100000, res.FinalEquity(), 1e-9)
	assert.InDelta(t, 0.0, res.Metrics.TotalReturn, 1e-12)
}

func TestAffordableShares(t *testing.T) {
	free := backtest.Proportional{Rate: 0}
	pct := backtest.Proportional{Rate: 0.01}

	assert.Equal(t, int64(1000), affordableShares(100000, 100, free))
	assert.Equal(t, int64(990), affordableShares(100000, 100, pct))
	assert.Equal(t, int64(0), affordableShares(50, 100, free))
	assert.Equal(t, int64(0), affordableShares(0, 100, free))
	assert.Equal(t, int64(0), affordableShares(-10, 100, free))

	// A flat fee above the allocation leaves nothing to buy with.
	assert.Equal(t, int64(0), affordableShares(100, 100, backtest.Flat{Amount: 200}))
	assert.Equal(t, int64(9), affordableShares(1000, 100, backtest.Flat{Amount: 50}))
}
