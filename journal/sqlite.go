package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal persists runs, trades, and equity curves to a SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, seq, date, ticker, side, quantity, price, commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Seq, t.Date, t.Ticker, t.Side, t.Quantity, t.Price, t.Commission,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, date, equity)
		VALUES (?, ?, ?)`,
		e.RunID, e.Date, e.Equity,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, config, start_date, end_date, initial_cash, final_equity,
		 total_return, cagr, volatility, sharpe_ratio, max_drawdown, win_rate,
		 trades, total_commission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Config, r.Start, r.End,
		r.InitialCash, r.FinalEquity, r.TotalReturn, r.CAGR, r.Volatility,
		r.SharpeRatio, r.MaxDrawdown, r.WinRate, r.Trades, r.TotalCommission,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
