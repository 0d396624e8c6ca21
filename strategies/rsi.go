package strategies

import (
	"fmt"
	"math"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/indicators"
)

// RSI buys a positionSize fraction of equity when the relative strength
// index drops below the oversold level and liquidates the holding once it
// rises above the overbought level.
type RSI struct {
	tickers      []string
	period       int
	oversold     float64
	overbought   float64
	positionSize float64
}

var _ backtest.Strategy = (*RSI)(nil)

func NewRSI(tickers []string, period int, oversold, overbought, positionSize float64) (*RSI, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("rsi: no tickers")
	}
	if period == 0 {
		period = 14
	}
	if oversold == 0 {
		oversold = 30
	}
	if overbought == 0 {
		overbought = 70
	}
	if positionSize == 0 {
		positionSize = 0.2
	}
	if period < 1 {
		return nil, fmt.Errorf("rsi: period must be positive, got %d", period)
	}
	if oversold >= overbought {
		return nil, fmt.Errorf("rsi: oversold %g must be below overbought %g", oversold, overbought)
	}
	if positionSize <= 0 || positionSize > 1 {
		return nil, fmt.Errorf("rsi: position size must be in (0, 1], got %g", positionSize)
	}

	return &RSI{
		tickers:      tickers,
		period:       period,
		oversold:     oversold,
		overbought:   overbought,
		positionSize: positionSize,
	}, nil
}

func (s *RSI) Name() string { return "rsi" }

func (s *RSI) GenerateSignals(ctx *backtest.Context) ([]backtest.Order, error) {
	var orders []backtest.Order

	for _, ticker := range s.tickers {
		series := ctx.History.Series(ticker, ctx.Index)
		if len(series) < s.period+1 {
			continue
		}

		rsi, err := indicators.RSI(series, s.period)
		if err != nil || math.IsNaN(rsi) {
			continue
		}

		pos := ctx.Portfolio.Position(ticker)
		px, ok := ctx.Price(ticker)
		if !ok {
			continue
		}

		switch {
		case rsi < s.oversold && pos.Quantity == 0:
			alloc := ctx.Equity * s.positionSize
			if qty := affordableShares(alloc, px, ctx.Commission); qty > 0 {
				orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Buy, Quantity: qty})
			}

		case rsi > s.overbought && pos.Quantity > 0:
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Sell, Quantity: pos.Quantity})
		}
	}

	return orders, nil
}
