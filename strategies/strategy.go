// Package strategies provides the built-in trading strategies and a
// name-based factory for constructing them from configuration.
//
// A custom strategy only needs to implement backtest.Strategy; nothing here
// is special-cased by the engine.
package strategies

import (
	"fmt"
	"strings"

	"github.com/quantlab/backtester/backtest"
)

// Params carries the union of all built-in strategy parameters. Zero values
// fall back to each strategy's defaults.
type Params struct {
	Tickers []string           `json:"tickers" yaml:"tickers"`
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`

	// ma-cross
	ShortWindow int `json:"short_window,omitempty" yaml:"short_window,omitempty"`
	LongWindow  int `json:"long_window,omitempty" yaml:"long_window,omitempty"`

	// mean-reversion
	Lookback    int     `json:"lookback,omitempty" yaml:"lookback,omitempty"`
	EntryZScore float64 `json:"entry_zscore,omitempty" yaml:"entry_zscore,omitempty"`
	ExitZScore  float64 `json:"exit_zscore,omitempty" yaml:"exit_zscore,omitempty"`

	// momentum
	TopN          int `json:"top_n,omitempty" yaml:"top_n,omitempty"`
	RebalanceDays int `json:"rebalance_days,omitempty" yaml:"rebalance_days,omitempty"`

	// rsi
	Period     int     `json:"period,omitempty" yaml:"period,omitempty"`
	Oversold   float64 `json:"oversold,omitempty" yaml:"oversold,omitempty"`
	Overbought float64 `json:"overbought,omitempty" yaml:"overbought,omitempty"`

	// fraction of equity committed per entry
	PositionSize float64 `json:"position_size,omitempty" yaml:"position_size,omitempty"`
}

// ByName builds a built-in strategy from its name and parameters.
func ByName(name string, p Params) (backtest.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "buy-and-hold", "buyandhold":
		return NewBuyAndHold(p.Tickers, p.Weights)

	case "ma-cross", "macross":
		return NewMACross(p.Tickers, p.ShortWindow, p.LongWindow, p.PositionSize)

	case "mean-reversion", "meanreversion":
		return NewMeanReversion(p.Tickers, p.Lookback, p.EntryZScore, p.ExitZScore, p.PositionSize)

	case "momentum":
		return NewMomentum(p.Tickers, p.Lookback, p.TopN, p.RebalanceDays)

	case "rsi":
		return NewRSI(p.Tickers, p.Period, p.Oversold, p.Overbought, p.PositionSize)

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, buy-and-hold, ma-cross, mean-reversion, momentum, rsi)", name)
	}
}

// Names lists the built-in strategy names.
func Names() []string {
	return []string{"buy-and-hold", "ma-cross", "mean-reversion", "momentum", "noop", "rsi"}
}
