package strategies

import "github.com/quantlab/backtester/backtest"

// Noop never trades. Useful as an engine wiring test.
type Noop struct{}

var _ backtest.Strategy = Noop{}

func (Noop) Name() string { return "noop" }

func (Noop) GenerateSignals(*backtest.Context) ([]backtest.Order, error) {
	return nil, nil
}
