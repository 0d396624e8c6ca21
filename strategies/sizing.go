package strategies

import "github.com/quantlab/backtester/backtest"

// affordableShares returns the largest whole-share quantity whose notional
// plus commission fits inside alloc. Converges in a handful of steps even
// for flat fee models.
func affordableShares(alloc, price float64, c backtest.CommissionModel) int64 {
	if alloc <= 0 || price <= 0 {
		return 0
	}

	q := int64(alloc / price)
	for q > 0 {
		notional := float64(q) * price
		if notional+c.Fee(notional) <= alloc {
			break
		}
		next := int64((alloc - c.Fee(notional)) / price)
		if next >= q {
			next = q - 1
		}
		q = next
	}
	if q < 0 {
		q = 0
	}
	return q
}
