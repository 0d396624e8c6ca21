package backtest

import "time"

// Side of an order: buy or sell.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// Order is an instruction emitted by a strategy for the current bar. It is
// consumed by the engine in the same bar; rejected orders simply disappear.
type Order struct {
	Ticker   string
	Side     Side
	Quantity int64 // whole shares, > 0
}

// Trade is an executed fill, appended to the trade log in execution order
// and immutable thereafter.
type Trade struct {
	Date       time.Time
	Ticker     string
	Side       Side
	Quantity   int64
	Price      float64 // fill price (bar close)
	Commission float64
}

// Notional is the trade's quantity x price, before commission.
func (t Trade) Notional() float64 {
	return float64(t.Quantity) * t.Price
}
