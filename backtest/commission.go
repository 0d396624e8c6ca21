package backtest

import "fmt"

// CommissionModel maps a trade notional to a fee. Models must be pure: the
// same notional always yields the same fee.
type CommissionModel interface {
	Fee(notional float64) float64
}

// Proportional charges a fixed fraction of the trade notional
// (0.001 = 0.1% per trade).
type Proportional struct {
	Rate float64
}

func (p Proportional) Fee(notional float64) float64 {
	return notional * p.Rate
}

// Flat charges the same fee on every trade regardless of size.
type Flat struct {
	Amount float64
}

func (f Flat) Fee(notional float64) float64 {
	return f.Amount
}

// NewProportional validates the rate and returns a Proportional model.
func NewProportional(rate float64) (Proportional, error) {
	if rate < 0 {
		return Proportional{}, fmt.Errorf("commission rate must be >= 0, got %g", rate)
	}
	return Proportional{Rate: rate}, nil
}
