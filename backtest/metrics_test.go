package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func curveOf(values ...float64) []EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]EquityPoint, len(values))
	for i, v := range values {
		out[i] = EquityPoint{Date: start.AddDate(0, 0, i), Equity: v}
	}
	return out
}

func TestAnalyzeSinglePointCurve(t *testing.T) {
	m := Analyze(curveOf(100000), nil, 100000, 0)

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.CAGR)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestAnalyzeEmptyCurve(t *testing.T) {
	m := Analyze(nil, nil, 100000, 0)
	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0, m.NumTrades)
}

func TestAnalyzeTotalReturn(t *testing.T) {
	m := Analyze(curveOf(100000, 105000, 110000), nil, 100000, 0)
	assert.InDelta(t, 0.10, m.TotalReturn, 1e-9)
}

func TestAnalyzeCAGROneYear(t *testing.T) {
	values := make([]float64, 252)
	for i := range values {
		values[i] = 100000 + float64(i)*10000.0/251.0
	}
	m := Analyze(curveOf(values...), nil, 100000, 0)
	// 252 bars is exactly one trading year, so CAGR equals total return.
	assert.InDelta(t, 0.10, m.CAGR, 1e-9)
}

func TestAnalyzeZeroVolatilitySharpe(t *testing.T) {
	m := Analyze(curveOf(100000, 100000, 100000), nil, 100000, 0)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
}

func TestMaxDrawdownNonDecreasingCurveIsZero(t *testing.T) {
	m := Analyze(curveOf(100, 100, 150, 150, 200), nil, 100, 0)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestMaxDrawdownDepth(t *testing.T) {
	// Peak 200, trough 120: drawdown -0.40. The later recovery to 180
	// does not shrink the worst observation.
	m := Analyze(curveOf(100, 200, 120, 180), nil, 100, 0)
	assert.InDelta(t, -0.40, m.MaxDrawdown, 1e-9)
	assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
}

func TestWinRateNoSells(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 10, Price: 100},
	}
	m := Analyze(curveOf(1000, 1000), trades, 1000, 0)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 1, m.NumTrades)
}

func TestWinRateCountsProfitableSells(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 10, Price: 100},
		{Date: date, Ticker: "AAPL", Side: Sell, Quantity: 10, Price: 110}, // win
		{Date: date, Ticker: "MSFT", Side: Buy, Quantity: 10, Price: 100},
		{Date: date, Ticker: "MSFT", Side: Sell, Quantity: 10, Price: 90}, // loss
	}
	m := Analyze(curveOf(1000, 1000), trades, 1000, 0)
	assert.InDelta(t, 0.5, m.WinRate, 1e-9)
}

func TestWinRateCommissionTurnsWinIntoLoss(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 10, Price: 100},
		// Gross proceeds 1010 beat the 1000 basis, but the fee eats it.
		{Date: date, Ticker: "AAPL", Side: Sell, Quantity: 10, Price: 101, Commission: 20},
	}
	m := Analyze(curveOf(1000, 1000), trades, 1000, 0)
	assert.Equal(t, 0.0, m.WinRate)
}

func TestWinRatePartialSellUsesAverageCost(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 10, Price: 100},
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 10, Price: 200},
		// Avg cost 150: selling 5 at 160 wins, selling 5 at 140 loses.
		{Date: date, Ticker: "AAPL", Side: Sell, Quantity: 5, Price: 160},
		{Date: date, Ticker: "AAPL", Side: Sell, Quantity: 5, Price: 140},
	}
	m := Analyze(curveOf(1000, 1000), trades, 1000, 0)
	assert.InDelta(t, 0.5, m.WinRate, 1e-9)
}

func TestTotalCommission(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []Trade{
		{Date: date, Ticker: "AAPL", Side: Buy, Quantity: 1, Price: 100, Commission: 1.5},
		{Date: date, Ticker: "AAPL", Side: Sell, Quantity: 1, Price: 100, Commission: 2.5},
	}
	m := Analyze(curveOf(1000, 1000), trades, 1000, 0)
	assert.InDelta(t, 4.0, m.TotalCommission, 1e-9)
}
