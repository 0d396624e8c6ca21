package strategies

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/indicators"
)

// Momentum rotates into the topN tickers by trailing lookback-bar return
// every rebalanceDays bars. Holdings that fall out of the top set are
// liquidated first, then new entrants are bought with an equal share of
// cash. Between rebalances it does nothing.
type Momentum struct {
	tickers       []string
	lookback      int
	topN          int
	rebalanceDays int

	daysSinceRebalance int
	held               map[string]bool
}

var _ backtest.Strategy = (*Momentum)(nil)

func NewMomentum(tickers []string, lookback, topN, rebalanceDays int) (*Momentum, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("momentum: no tickers")
	}
	if lookback == 0 {
		lookback = 60
	}
	if topN == 0 {
		topN = 3
	}
	if rebalanceDays == 0 {
		rebalanceDays = 20
	}
	if lookback < 1 {
		return nil, fmt.Errorf("momentum: lookback must be positive, got %d", lookback)
	}
	if topN < 1 || topN > len(tickers) {
		return nil, fmt.Errorf("momentum: top_n must be in [1, %d], got %d", len(tickers), topN)
	}
	if rebalanceDays < 1 {
		return nil, fmt.Errorf("momentum: rebalance_days must be positive, got %d", rebalanceDays)
	}

	return &Momentum{
		tickers:       tickers,
		lookback:      lookback,
		topN:          topN,
		rebalanceDays: rebalanceDays,
		held:          make(map[string]bool),
	}, nil
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) GenerateSignals(ctx *backtest.Context) ([]backtest.Order, error) {
	s.daysSinceRebalance++
	if s.daysSinceRebalance < s.rebalanceDays {
		return nil, nil
	}
	s.daysSinceRebalance = 0

	type ranked struct {
		ticker string
		ret    float64
	}
	var ranking []ranked

	for _, ticker := range s.tickers {
		series := ctx.History.Series(ticker, ctx.Index)
		ret, err := indicators.TrailingReturn(series, s.lookback)
		if err != nil || math.IsNaN(ret) {
			continue
		}
		ranking = append(ranking, ranked{ticker: ticker, ret: ret})
	}
	if len(ranking) == 0 {
		return nil, nil
	}

	// Ties break by ticker so repeat runs rank identically.
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].ret != ranking[j].ret {
			return ranking[i].ret > ranking[j].ret
		}
		return ranking[i].ticker < ranking[j].ticker
	})

	top := make(map[string]bool, s.topN)
	for i := 0; i < len(ranking) && i < s.topN; i++ {
		top[ranking[i].ticker] = true
	}

	var sells, buys []string
	for ticker := range s.held {
		if !top[ticker] {
			sells = append(sells, ticker)
		}
	}
	for ticker := range top {
		if !s.held[ticker] {
			buys = append(buys, ticker)
		}
	}
	sort.Strings(sells)
	sort.Strings(buys)

	// Sells first so the freed cash is available to the buys on this bar.
	var orders []backtest.Order
	for _, ticker := range sells {
		pos := ctx.Portfolio.Position(ticker)
		if pos.Quantity > 0 {
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Sell, Quantity: pos.Quantity})
		}
	}

	alloc := ctx.Portfolio.Cash() / float64(s.topN)
	for _, ticker := range buys {
		px, ok := ctx.Price(ticker)
		if !ok {
			continue
		}
		if qty := affordableShares(alloc, px, ctx.Commission); qty > 0 {
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Buy, Quantity: qty})
		}
	}

	s.held = top
	return orders, nil
}
