package strategies

import (
	"fmt"
	"math"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/indicators"
)

// MACross trades simple moving average crossovers: it buys a positionSize
// fraction of equity when the short SMA crosses above the long SMA, and
// liquidates the position when it crosses back below. No signal is emitted
// until longWindow bars of history exist.
type MACross struct {
	tickers      []string
	shortWindow  int
	longWindow   int
	positionSize float64
}

var _ backtest.Strategy = (*MACross)(nil)

func NewMACross(tickers []string, short, long int, positionSize float64) (*MACross, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ma-cross: no tickers")
	}
	if short == 0 {
		short = 20
	}
	if long == 0 {
		long = 50
	}
	if positionSize == 0 {
		positionSize = 0.2
	}
	if short <= 0 || long <= 0 || short >= long {
		return nil, fmt.Errorf("ma-cross: need 0 < short < long, got short=%d long=%d", short, long)
	}
	if positionSize <= 0 || positionSize > 1 {
		return nil, fmt.Errorf("ma-cross: position size must be in (0, 1], got %g", positionSize)
	}

	return &MACross{
		tickers:      tickers,
		shortWindow:  short,
		longWindow:   long,
		positionSize: positionSize,
	}, nil
}

func (s *MACross) Name() string { return "ma-cross" }

func (s *MACross) GenerateSignals(ctx *backtest.Context) ([]backtest.Order, error) {
	var orders []backtest.Order

	for _, ticker := range s.tickers {
		series := ctx.History.Series(ticker, ctx.Index)
		if len(series) < s.longWindow {
			continue
		}

		shortMA, err := indicators.SMA(series, s.shortWindow)
		if err != nil {
			continue
		}
		longMA, err := indicators.SMA(series, s.longWindow)
		if err != nil {
			continue
		}
		if math.IsNaN(shortMA) || math.IsNaN(longMA) {
			continue
		}

		cur := shortMA > longMA

		// The previous bar's signal is false until a full window exists
		// before it, so the earliest possible entry is the longWindow bar.
		prev := false
		if len(series) > s.longWindow {
			prevShort, err1 := indicators.SMA(series[:len(series)-1], s.shortWindow)
			prevLong, err2 := indicators.SMA(series[:len(series)-1], s.longWindow)
			if err1 == nil && err2 == nil && !math.IsNaN(prevShort) && !math.IsNaN(prevLong) {
				prev = prevShort > prevLong
			}
		}

		pos := ctx.Portfolio.Position(ticker)
		px, ok := ctx.Price(ticker)
		if !ok {
			continue
		}

		switch {
		case cur && !prev && pos.Quantity == 0:
			alloc := ctx.Equity * s.positionSize
			if qty := affordableShares(alloc, px, ctx.Commission); qty > 0 {
				orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Buy, Quantity: qty})
			}

		case !cur && prev && pos.Quantity > 0:
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Sell, Quantity: pos.Quantity})
		}
	}

	return orders, nil
}
