package backtest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/quantlab/backtester/journal"
	"github.com/quantlab/backtester/market"
)

// Strategy is called once per bar with a read-only view of the world and
// returns the orders to execute on that bar, in the order they should fill.
type Strategy interface {
	// Name returns a stable identifier like "ma-cross" or "buy-and-hold".
	Name() string

	// GenerateSignals inspects the bar context and returns zero or more
	// orders. An error aborts the whole run.
	GenerateSignals(ctx *Context) ([]Order, error)
}

// Context is the read-only view a strategy gets for one bar.
//
// History contains prices up to and including Date and nothing after it, so
// a strategy cannot look ahead no matter how it slices the data.
type Context struct {
	Date  time.Time
	Index int // bar index within the run, 0-based

	History    *market.Table
	Portfolio  *Portfolio
	Commission CommissionModel

	// Equity is the portfolio marked at this bar's prices, before any of
	// this bar's orders execute.
	Equity float64
}

// Price returns the current bar's price for ticker. ok is false when the
// ticker has no price on this date.
func (c *Context) Price(ticker string) (float64, bool) {
	return c.History.Price(c.Index, ticker)
}

// Config holds the engine's run parameters.
type Config struct {
	InitialCash  float64
	Commission   CommissionModel // nil means free trading
	RiskFreeRate float64         // annualized, used by the Sharpe ratio

	Logger  *slog.Logger    // nil discards engine logging
	Journal journal.Journal // optional sink for trades, equity, and the run row
	RunID   string          // identifies journal rows; required when Journal is set
	RunMeta []byte          // serialized run configuration stored on the run row
}

// Engine replays a price table bar-by-bar through a strategy, executing its
// orders against a portfolio and recording the equity curve.
//
// A single run is strictly sequential. Engines share no state, so
// independent runs (parameter sweeps) may execute concurrently as long as
// each gets its own Engine.
type Engine struct {
	table *market.Table
	cfg   Config
	log   *slog.Logger

	pf     *Portfolio
	lastPx map[string]float64 // carry-forward marks for equity valuation
}

// New validates the configuration and builds an Engine. Malformed tables and
// non-positive cash fail here, before any bar is processed.
func New(table *market.Table, cfg Config) (*Engine, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("backtest: price table is empty")
	}
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("backtest: initial cash must be positive, got %g", cfg.InitialCash)
	}
	if cfg.Commission == nil {
		cfg.Commission = Proportional{Rate: 0}
	}
	if p, ok := cfg.Commission.(Proportional); ok && p.Rate < 0 {
		return nil, fmt.Errorf("backtest: commission rate must be >= 0, got %g", p.Rate)
	}
	if cfg.Journal != nil && cfg.RunID == "" {
		return nil, fmt.Errorf("backtest: run ID required when journaling")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Engine{table: table, cfg: cfg, log: log}, nil
}

// Run executes the strategy over every bar of the table and returns the
// complete result. The portfolio is rebuilt from initial cash on every call,
// so running the same configuration twice yields identical results.
//
// A strategy error aborts the run; the partial equity curve is discarded and
// the error names the offending date and strategy.
func (e *Engine) Run(strat Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: nil strategy")
	}

	e.pf = newPortfolio(e.cfg.InitialCash)
	e.lastPx = make(map[string]float64, len(e.table.Tickers()))

	n := e.table.Len()
	curve := make([]EquityPoint, 0, n)
	var trades []Trade

	for i := 0; i < n; i++ {
		date := e.table.Date(i)

		for _, ticker := range e.table.Tickers() {
			if px, ok := e.table.Price(i, ticker); ok {
				e.lastPx[ticker] = px
			}
		}

		ctx := &Context{
			Date:       date,
			Index:      i,
			History:    e.table.UpTo(i),
			Portfolio:  e.pf,
			Commission: e.cfg.Commission,
			Equity:     e.pf.TotalEquity(e.mark),
		}

		orders, err := strat.GenerateSignals(ctx)
		if err != nil {
			return nil, fmt.Errorf("strategy %q failed on %s: %w",
				strat.Name(), date.Format("2006-01-02"), err)
		}

		// Emission order is significant: a SELL that frees cash enables a
		// later BUY on the same bar.
		for _, o := range orders {
			if t, ok := e.execute(i, date, o); ok {
				trades = append(trades, t)
				if e.cfg.Journal != nil {
					if err := e.cfg.Journal.RecordTrade(journal.TradeRecord{
						RunID:      e.cfg.RunID,
						Seq:        len(trades),
						Date:       t.Date,
						Ticker:     t.Ticker,
						Side:       t.Side.String(),
						Quantity:   t.Quantity,
						Price:      t.Price,
						Commission: t.Commission,
					}); err != nil {
						return nil, fmt.Errorf("journal trade: %w", err)
					}
				}
			}
		}

		equity := e.pf.TotalEquity(e.mark)
		curve = append(curve, EquityPoint{Date: date, Equity: equity})

		if e.cfg.Journal != nil {
			if err := e.cfg.Journal.RecordEquity(journal.EquityRecord{
				RunID:  e.cfg.RunID,
				Date:   date,
				Equity: equity,
			}); err != nil {
				return nil, fmt.Errorf("journal equity: %w", err)
			}
		}
	}

	metrics := Analyze(curve, trades, e.cfg.InitialCash, e.cfg.RiskFreeRate)

	res := &Result{
		Strategy:    strat.Name(),
		InitialCash: e.cfg.InitialCash,
		EquityCurve: curve,
		Trades:      trades,
		Metrics:     metrics,
	}

	if e.cfg.Journal != nil {
		if err := e.cfg.Journal.RecordRun(res.RunRecord(e.cfg.RunID, e.cfg.RunMeta)); err != nil {
			return nil, fmt.Errorf("journal run: %w", err)
		}
	}

	e.log.Info("run complete",
		"strategy", strat.Name(),
		"bars", n,
		"trades", len(trades),
		"final_equity", res.FinalEquity(),
	)

	return res, nil
}

// mark prices a ticker for equity valuation, carrying the last observed
// price forward across bars with a gap.
func (e *Engine) mark(ticker string) (float64, bool) {
	px, ok := e.lastPx[ticker]
	return px, ok
}

// execute fills a single order against the portfolio, or rejects it.
// Rejections (no price, insufficient cash, insufficient shares) skip the
// order whole: no partial fills, no trade record, no error.
func (e *Engine) execute(i int, date time.Time, o Order) (Trade, bool) {
	if o.Ticker == "" || o.Quantity <= 0 {
		e.log.Debug("order rejected", "date", date, "ticker", o.Ticker, "reason", "invalid order")
		return Trade{}, false
	}

	px, ok := e.table.Price(i, o.Ticker)
	if !ok {
		e.log.Debug("order rejected", "date", date, "ticker", o.Ticker, "reason", "no price")
		return Trade{}, false
	}

	notional := float64(o.Quantity) * px
	fee := e.cfg.Commission.Fee(notional)

	switch o.Side {
	case Buy:
		if notional+fee > e.pf.Cash() {
			e.log.Debug("order rejected", "date", date, "ticker", o.Ticker,
				"reason", "insufficient cash", "need", notional+fee, "cash", e.pf.Cash())
			return Trade{}, false
		}
		e.pf.applyBuy(o.Ticker, o.Quantity, px, fee)

	case Sell:
		if e.pf.Position(o.Ticker).Quantity < o.Quantity {
			e.log.Debug("order rejected", "date", date, "ticker", o.Ticker,
				"reason", "insufficient shares", "want", o.Quantity,
				"held", e.pf.Position(o.Ticker).Quantity)
			return Trade{}, false
		}
		if e.pf.Cash()+notional-fee < 0 {
			// A flat fee larger than the proceeds would drive cash negative.
			e.log.Debug("order rejected", "date", date, "ticker", o.Ticker,
				"reason", "commission exceeds proceeds")
			return Trade{}, false
		}
		e.pf.applySell(o.Ticker, o.Quantity, px, fee)

	default:
		e.log.Debug("order rejected", "date", date, "ticker", o.Ticker, "reason", "unknown side")
		return Trade{}, false
	}

	return Trade{
		Date:       date,
		Ticker:     o.Ticker,
		Side:       o.Side,
		Quantity:   o.Quantity,
		Price:      px,
		Commission: fee,
	}, true
}
