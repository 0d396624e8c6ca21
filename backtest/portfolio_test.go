package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioUnknownTickerIsZeroPosition(t *testing.T) {
	p := newPortfolio(1000)

	pos := p.Position("AAPL")
	assert.Equal(t, "AAPL", pos.Ticker)
	assert.Equal(t, int64(0), pos.Quantity)
	assert.Equal(t, 0.0, pos.AvgCost)
}

func TestPortfolioBuyUpdatesWeightedAverageCost(t *testing.T) {
	p := newPortfolio(10000)

	p.applyBuy("AAPL", 10, 100, 0)
	p.applyBuy("AAPL", 10, 200, 0)

	pos := p.Position("AAPL")
	assert.Equal(t, int64(20), pos.Quantity)
	assert.InDelta(t, 150, pos.AvgCost, 1e-9)
	assert.InDelta(t, 10000-10*100-10*200, p.Cash(), 1e-9)
}

func TestPortfolioSellKeepsAverageCost(t *testing.T) {
	p := newPortfolio(10000)

	p.applyBuy("AAPL", 20, 150, 0)
	p.applySell("AAPL", 5, 160, 0)

	pos := p.Position("AAPL")
	assert.Equal(t, int64(15), pos.Quantity)
	assert.InDelta(t, 150, pos.AvgCost, 1e-9)
}

func TestPortfolioFullLiquidationResetsCost(t *testing.T) {
	p := newPortfolio(10000)

	p.applyBuy("AAPL", 10, 100, 0)
	p.applySell("AAPL", 10, 110, 0)

	pos := p.Position("AAPL")
	assert.Equal(t, int64(0), pos.Quantity)
	assert.Equal(t, 0.0, pos.AvgCost)

	// A liquidated entry looks the same as one that never existed.
	assert.Equal(t, p.Position("AAPL").Quantity, p.Position("NVDA").Quantity)
	assert.Empty(t, p.Holdings())
}

func TestPortfolioCommissionHitsCash(t *testing.T) {
	p := newPortfolio(10000)

	p.applyBuy("AAPL", 10, 100, 25)
	assert.InDelta(t, 10000-1000-25, p.Cash(), 1e-9)

	p.applySell("AAPL", 10, 100, 25)
	assert.InDelta(t, 10000-50, p.Cash(), 1e-9)
}

func TestPortfolioHoldingsSorted(t *testing.T) {
	p := newPortfolio(100000)

	p.applyBuy("MSFT", 1, 300, 0)
	p.applyBuy("AAPL", 1, 100, 0)
	p.applyBuy("NVDA", 1, 500, 0)

	holdings := p.Holdings()
	require.Len(t, holdings, 3)
	assert.Equal(t, "AAPL", holdings[0].Ticker)
	assert.Equal(t, "MSFT", holdings[1].Ticker)
	assert.Equal(t, "NVDA", holdings[2].Ticker)
}

func TestPortfolioTotalEquity(t *testing.T) {
	p := newPortfolio(1000)
	p.applyBuy("AAPL", 5, 100, 0)

	prices := map[string]float64{"AAPL": 120}
	equity := p.TotalEquity(func(ticker string) (float64, bool) {
		px, ok := prices[ticker]
		return px, ok
	})
	assert.InDelta(t, 500+5*120, equity, 1e-9)
}
