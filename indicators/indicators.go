// Package indicators provides technical analysis primitives over closing
// price series. All functions are deterministic and safe to share between
// replay and backtest code.
//
// NaN cells (missing prices) propagate through the math; callers should
// check math.IsNaN before acting on a value.
package indicators

import (
	"fmt"
	"math"
)

// SMA calculates the Simple Moving Average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period prices.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += prices[i]
	}
	ema := sma / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema, nil
}

// Mean returns the arithmetic mean of the last period prices.
func Mean(prices []float64, period int) (float64, error) {
	return SMA(prices, period)
}

// Std returns the sample standard deviation of the last period prices.
func Std(prices []float64, period int) (float64, error) {
	if period <= 1 {
		return 0, fmt.Errorf("period must be at least 2, got %d", period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	mean, err := SMA(prices, period)
	if err != nil {
		return 0, err
	}

	ss := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		d := prices[i] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(period-1)), nil
}

// ZScore returns how many sample standard deviations the last price sits
// from the mean of the trailing period window. A zero-deviation window
// returns NaN.
func ZScore(prices []float64, period int) (float64, error) {
	if len(prices) < period {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period, len(prices))
	}

	mean, err := Mean(prices, period)
	if err != nil {
		return 0, err
	}
	std, err := Std(prices, period)
	if err != nil {
		return 0, err
	}
	if std == 0 {
		return math.NaN(), nil
	}
	return (prices[len(prices)-1] - mean) / std, nil
}

// RSI calculates the Relative Strength Index over the last period price
// changes using simple averages of gains and losses. Needs period+1 prices.
// An all-gain window returns 100; a flat window returns NaN.
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period+1, len(prices))
	}

	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	if loss == 0 {
		if gain == 0 {
			return math.NaN(), nil
		}
		return 100, nil
	}

	rs := gain / loss
	return 100 - 100/(1+rs), nil
}

// TrailingReturn returns the fractional return between the first and last
// price of the trailing period window (period+1 prices).
func TrailingReturn(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("not enough prices: need %d, got %d", period+1, len(prices))
	}

	first := prices[len(prices)-period-1]
	last := prices[len(prices)-1]
	if first <= 0 {
		return math.NaN(), nil
	}
	return last/first - 1, nil
}
