package backtest

import "sort"

// Position is a holding in a single ticker. Quantity never goes negative;
// shorting is not supported.
type Position struct {
	Ticker   string
	Quantity int64
	AvgCost  float64
}

// Portfolio is the ledger of cash and per-ticker holdings. It is the single
// source of truth for what is owned during a run.
//
// Strategies receive the portfolio through their bar context and can only
// read it: the mutators are unexported and called solely by the engine's
// execution step, so the single-writer invariant is enforced by the type
// system rather than by convention.
type Portfolio struct {
	cash      float64
	positions map[string]Position
}

func newPortfolio(cash float64) *Portfolio {
	return &Portfolio{
		cash:      cash,
		positions: make(map[string]Position),
	}
}

// Cash returns the free cash balance.
func (p *Portfolio) Cash() float64 { return p.cash }

// Position returns the holding for ticker. Unknown tickers return a
// zero-quantity Position; missing and fully liquidated entries look the same.
func (p *Portfolio) Position(ticker string) Position {
	pos, ok := p.positions[ticker]
	if !ok {
		return Position{Ticker: ticker}
	}
	return pos
}

// Holdings returns all positions with non-zero quantity, sorted by ticker.
func (p *Portfolio) Holdings() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		if pos.Quantity > 0 {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// TotalEquity returns cash plus the market value of all holdings priced by
// the supplied lookup. Holdings are summed in ticker order so the float
// result is reproducible.
func (p *Portfolio) TotalEquity(price func(ticker string) (float64, bool)) float64 {
	total := p.cash
	for _, pos := range p.Holdings() {
		if px, ok := price(pos.Ticker); ok {
			total += float64(pos.Quantity) * px
		}
	}
	return total
}

// applyBuy debits cash and folds the fill into the weighted-average cost.
// The engine has already verified the cash covers notional plus commission.
func (p *Portfolio) applyBuy(ticker string, quantity int64, price, commission float64) {
	p.cash -= float64(quantity)*price + commission

	pos := p.positions[ticker]
	totalCost := float64(pos.Quantity)*pos.AvgCost + float64(quantity)*price
	pos.Ticker = ticker
	pos.Quantity += quantity
	if pos.Quantity > 0 {
		pos.AvgCost = totalCost / float64(pos.Quantity)
	}
	p.positions[ticker] = pos
}

// applySell credits cash with the proceeds net of commission and reduces the
// holding. The engine has already verified the quantity is held.
func (p *Portfolio) applySell(ticker string, quantity int64, price, commission float64) {
	p.cash += float64(quantity)*price - commission

	pos := p.positions[ticker]
	pos.Quantity -= quantity
	if pos.Quantity <= 0 {
		pos.Quantity = 0
		pos.AvgCost = 0
	}
	p.positions[ticker] = pos
}
