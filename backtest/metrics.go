package backtest

import (
	"math"
	"time"
)

// tradingDays is the annualization factor for daily bars.
const tradingDays = 252

// EquityPoint is one bar's total portfolio value: cash plus the market value
// of all holdings.
type EquityPoint struct {
	Date   time.Time
	Equity float64
}

// Metrics summarizes a run's equity curve and trade log.
type Metrics struct {
	TotalReturn     float64 // final / initial - 1
	CAGR            float64 // annualized at 252 trading days
	Volatility      float64 // annualized stddev of daily returns
	SharpeRatio     float64 // 0 when volatility is 0
	MaxDrawdown     float64 // <= 0; decline from the running equity peak
	WinRate         float64 // winning sells / completed sells, 0 if none
	NumTrades       int
	TotalCommission float64
}

// Analyze derives Metrics from an equity curve and trade log.
//
// Degenerate inputs never error: a curve of length <= 1 reports zero for the
// return and risk figures, and zero volatility reports a zero Sharpe ratio.
func Analyze(curve []EquityPoint, trades []Trade, initialCash, riskFreeRate float64) Metrics {
	m := Metrics{NumTrades: len(trades)}

	for _, t := range trades {
		m.TotalCommission += t.Commission
	}
	m.WinRate = winRate(trades)

	if len(curve) <= 1 || initialCash <= 0 {
		return m
	}

	final := curve[len(curve)-1].Equity
	n := float64(len(curve))

	m.TotalReturn = final/initialCash - 1
	m.CAGR = math.Pow(final/initialCash, tradingDays/n) - 1

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev != 0 {
			returns = append(returns, curve[i].Equity/prev-1)
		}
	}

	mean, std := meanStd(returns)
	m.Volatility = std * math.Sqrt(tradingDays)
	if m.Volatility != 0 {
		m.SharpeRatio = (mean*tradingDays - riskFreeRate) / m.Volatility
	}

	m.MaxDrawdown = maxDrawdown(curve)

	return m
}

// winRate replays the trade log per ticker, tracking an average-cost basis.
// A sell wins when its proceeds net of commission exceed the cost basis of
// the quantity sold.
func winRate(trades []Trade) float64 {
	type basis struct {
		quantity int64
		cost     float64
	}

	book := make(map[string]*basis)
	wins, sells := 0, 0

	for _, t := range trades {
		b := book[t.Ticker]
		if b == nil {
			b = &basis{}
			book[t.Ticker] = b
		}

		switch t.Side {
		case Buy:
			b.cost += float64(t.Quantity) * t.Price
			b.quantity += t.Quantity

		case Sell:
			if b.quantity <= 0 {
				continue
			}
			avgCost := b.cost / float64(b.quantity)
			soldBasis := avgCost * float64(t.Quantity)
			proceeds := float64(t.Quantity)*t.Price - t.Commission

			sells++
			if proceeds > soldBasis {
				wins++
			}

			b.cost -= soldBasis
			b.quantity -= t.Quantity
		}
	}

	if sells == 0 {
		return 0
	}
	return float64(wins) / float64(sells)
}

// maxDrawdown is the deepest decline from the running equity peak, always
// <= 0 and exactly 0 for a non-decreasing curve.
func maxDrawdown(curve []EquityPoint) float64 {
	peak := curve[0].Equity
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := p.Equity/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// meanStd returns the mean and sample standard deviation of xs.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
