// Package journal persists backtest runs, trade logs, and equity curves.
package journal

import "time"

// TradeRecord is one executed fill. Seq is the 1-based position of the fill
// within its run.
type TradeRecord struct {
	RunID      string
	Seq        int
	Date       time.Time
	Ticker     string
	Side       string
	Quantity   int64
	Price      float64
	Commission float64
}

// EquityRecord is one bar's total portfolio value.
type EquityRecord struct {
	RunID  string
	Date   time.Time
	Equity float64
}

// RunRecord is the summary row for a completed run.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Strategy string
	Config   []byte // strategy parameters, serialized

	Start time.Time
	End   time.Time

	InitialCash float64
	FinalEquity float64

	TotalReturn     float64
	CAGR            float64
	Volatility      float64
	SharpeRatio     float64
	MaxDrawdown     float64
	WinRate         float64
	Trades          int
	TotalCommission float64
}

// Journal records the artifacts of a run as it executes. Implementations
// need not be safe for concurrent use; a run writes from a single goroutine.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	RecordRun(RunRecord) error
	Close() error
}
