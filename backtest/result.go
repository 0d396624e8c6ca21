package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/backtester/journal"
)

// Result is the immutable output of a run: the full equity curve, the trade
// log, and the derived metrics.
type Result struct {
	Strategy    string
	InitialCash float64
	EquityCurve []EquityPoint
	Trades      []Trade
	Metrics     Metrics
}

// FinalEquity returns the portfolio value on the last bar, or the initial
// cash for an empty curve.
func (r *Result) FinalEquity() float64 {
	if len(r.EquityCurve) == 0 {
		return r.InitialCash
	}
	return r.EquityCurve[len(r.EquityCurve)-1].Equity
}

// Summary renders the fixed-format results block.
func (r *Result) Summary() string {
	var b strings.Builder

	line := strings.Repeat("=", 54)
	sep := strings.Repeat("-", 54)

	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "                 BACKTEST RESULTS")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "  Strategy:            %s\n", r.Strategy)
	fmt.Fprintf(&b, "  Initial Capital:     $%.2f\n", r.InitialCash)
	fmt.Fprintf(&b, "  Final Value:         $%.2f\n", r.FinalEquity())
	fmt.Fprintf(&b, "  Total Return:        %.2f%%\n", r.Metrics.TotalReturn*100)
	fmt.Fprintf(&b, "  CAGR:                %.2f%%\n", r.Metrics.CAGR*100)
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "  Volatility (Ann.):   %.2f%%\n", r.Metrics.Volatility*100)
	fmt.Fprintf(&b, "  Sharpe Ratio:        %.2f\n", r.Metrics.SharpeRatio)
	fmt.Fprintf(&b, "  Max Drawdown:        %.2f%%\n", r.Metrics.MaxDrawdown*100)
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "  Total Trades:        %d\n", r.Metrics.NumTrades)
	fmt.Fprintf(&b, "  Win Rate:            %.2f%%\n", r.Metrics.WinRate*100)
	fmt.Fprintf(&b, "  Total Commission:    $%.2f\n", r.Metrics.TotalCommission)
	fmt.Fprintln(&b, line)

	return b.String()
}

// WriteEquityCSV writes the equity curve as "date,total_equity" rows.
func (r *Result) WriteEquityCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "total_equity"}); err != nil {
		return err
	}
	for _, p := range r.EquityCurve {
		if err := cw.Write([]string{
			p.Date.Format("2006-01-02"),
			strconv.FormatFloat(p.Equity, 'f', 6, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes the trade log as CSV.
func (r *Result) WriteTradesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "ticker", "side", "quantity", "price", "commission"}); err != nil {
		return err
	}
	for _, t := range r.Trades {
		if err := cw.Write([]string{
			t.Date.Format("2006-01-02"),
			t.Ticker,
			t.Side.String(),
			strconv.FormatInt(t.Quantity, 10),
			strconv.FormatFloat(t.Price, 'f', 6, 64),
			strconv.FormatFloat(t.Commission, 'f', 6, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RunRecord flattens the result into the journal's run row. config is the
// serialized strategy configuration to store alongside the metrics; it may
// be nil.
func (r *Result) RunRecord(runID string, config []byte) journal.RunRecord {
	rec := journal.RunRecord{
		RunID:           runID,
		Created:         time.Now().UTC(),
		Strategy:        r.Strategy,
		Config:          config,
		InitialCash:     r.InitialCash,
		FinalEquity:     r.FinalEquity(),
		TotalReturn:     r.Metrics.TotalReturn,
		CAGR:            r.Metrics.CAGR,
		Volatility:      r.Metrics.Volatility,
		SharpeRatio:     r.Metrics.SharpeRatio,
		MaxDrawdown:     r.Metrics.MaxDrawdown,
		WinRate:         r.Metrics.WinRate,
		Trades:          r.Metrics.NumTrades,
		TotalCommission: r.Metrics.TotalCommission,
	}
	if len(r.EquityCurve) > 0 {
		rec.Start = r.EquityCurve[0].Date
		rec.End = r.EquityCurve[len(r.EquityCurve)-1].Date
	}
	return rec
}
