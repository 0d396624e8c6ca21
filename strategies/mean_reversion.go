package strategies

import (
	"fmt"
	"math"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/indicators"
)

// MeanReversion buys a ticker when its price drops entryZScore sample
// deviations below the trailing mean and closes the position once the
// z-score recovers to exitZScore.
type MeanReversion struct {
	tickers      []string
	lookback     int
	entryZScore  float64
	exitZScore   float64
	positionSize float64
}

var _ backtest.Strategy = (*MeanReversion)(nil)

func NewMeanReversion(tickers []string, lookback int, entryZ, exitZ, positionSize float64) (*MeanReversion, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("mean-reversion: no tickers")
	}
	if lookback == 0 {
		lookback = 20
	}
	if entryZ == 0 {
		entryZ = -2.0
	}
	if positionSize == 0 {
		positionSize = 0.2
	}
	if lookback < 2 {
		return nil, fmt.Errorf("mean-reversion: lookback must be at least 2, got %d", lookback)
	}
	if entryZ >= exitZ {
		return nil, fmt.Errorf("mean-reversion: entry z-score %g must be below exit z-score %g", entryZ, exitZ)
	}
	if positionSize <= 0 || positionSize > 1 {
		return nil, fmt.Errorf("mean-reversion: position size must be in (0, 1], got %g", positionSize)
	}

	return &MeanReversion{
		tickers:      tickers,
		lookback:     lookback,
		entryZScore:  entryZ,
		exitZScore:   exitZ,
		positionSize: positionSize,
	}, nil
}

func (s *MeanReversion) Name() string { return "mean-reversion" }

func (s *MeanReversion) GenerateSignals(ctx *backtest.Context) ([]backtest.Order, error) {
	var orders []backtest.Order

	for _, ticker := range s.tickers {
		series := ctx.History.Series(ticker, ctx.Index)
		if len(series) < s.lookback {
			continue
		}

		z, err := indicators.ZScore(series, s.lookback)
		if err != nil || math.IsNaN(z) {
			continue
		}

		pos := ctx.Portfolio.Position(ticker)
		px, ok := ctx.Price(ticker)
		if !ok {
			continue
		}

		switch {
		case z <= s.entryZScore && pos.Quantity == 0:
			alloc := ctx.Equity * s.positionSize
			if qty := affordableShares(alloc, px, ctx.Commission); qty > 0 {
				orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Buy, Quantity: qty})
			}

		case z >= s.exitZScore && pos.Quantity > 0:
			orders = append(orders, backtest.Order{Ticker: ticker, Side: backtest.Sell, Quantity: pos.Quantity})
		}
	}

	return orders, nil
}
