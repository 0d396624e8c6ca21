package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns the summary row for a single run.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, strategy, config, start_date, end_date,
		       initial_cash, final_equity, total_return, cagr, volatility,
		       sharpe_ratio, max_drawdown, win_rate, trades, total_commission
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Strategy,
		&rec.Config,
		&rec.Start,
		&rec.End,
		&rec.InitialCash,
		&rec.FinalEquity,
		&rec.TotalReturn,
		&rec.CAGR,
		&rec.Volatility,
		&rec.SharpeRatio,
		&rec.MaxDrawdown,
		&rec.WinRate,
		&rec.Trades,
		&rec.TotalCommission,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListTrades returns a run's fills in execution order.
func (j *SQLiteJournal) ListTrades(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, seq, date, ticker, side, quantity, price, commission
		FROM trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Seq,
			&rec.Date,
			&rec.Ticker,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Commission,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns a run's equity curve in date order.
func (j *SQLiteJournal) ListEquity(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		if err := rows.Scan(&rec.RunID, &rec.Date, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRuns returns all run summaries, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, strategy, config, start_date, end_date,
		       initial_cash, final_equity, total_return, cagr, volatility,
		       sharpe_ratio, max_drawdown, win_rate, trades, total_commission
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Created,
			&rec.Strategy,
			&rec.Config,
			&rec.Start,
			&rec.End,
			&rec.InitialCash,
			&rec.FinalEquity,
			&rec.TotalReturn,
			&rec.CAGR,
			&rec.Volatility,
			&rec.SharpeRatio,
			&rec.MaxDrawdown,
			&rec.WinRate,
			&rec.Trades,
			&rec.TotalCommission,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
