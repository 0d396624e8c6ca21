package strategies

import (
	"fmt"

	"github.com/quantlab/backtester/backtest"
)

// BuyAndHold allocates the starting cash across its tickers on the first bar
// and never trades again. Allocation is proportional to the configured
// weights (equal weight by default), rounded down to whole shares.
type BuyAndHold struct {
	tickers []string
	weights map[string]float64

	bought bool
}

var _ backtest.Strategy = (*BuyAndHold)(nil)

func NewBuyAndHold(tickers []string, weights map[string]float64) (*BuyAndHold, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("buy-and-hold: no tickers")
	}

	if weights == nil {
		weights = make(map[string]float64, len(tickers))
		for _, t := range tickers {
			weights[t] = 1.0 / float64(len(tickers))
		}
	}
	for _, t := range tickers {
		w, ok := weights[t]
		if !ok {
			weights[t] = 1.0 / float64(len(tickers))
			continue
		}
		if w < 0 {
			return nil, fmt.Errorf("buy-and-hold: negative weight %g for %s", w, t)
		}
	}

	return &BuyAndHold{tickers: tickers, weights: weights}, nil
}

func (s *BuyAndHold) Name() string { return "buy-and-hold" }

func (s *BuyAndHold) GenerateSignals(ctx *backtest.Context) ([]backtest.Order, error) {
	if s.bought {
		return nil, nil
	}
	s.bought = true

	var orders []backtest.Order
	cash := ctx.Portfolio.Cash()

	for _, ticker := range s.tickers {
		px, ok := ctx.Price(ticker)
		if !ok {
			continue
		}
		alloc := cash * s.weights[ticker]
		if qty := affordableShares(alloc, px, ctx.Commission); qty > 0 {
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Buy, Quantity: qty})
		}
	}
	return orders, nil
}
