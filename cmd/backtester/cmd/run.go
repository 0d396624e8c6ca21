package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quantlab/backtester/backtest"
	"github.com/quantlab/backtester/config"
	"github.com/quantlab/backtester/internal/logging"
	"github.com/quantlab/backtester/journal"
	"github.com/quantlab/backtester/market"
	"github.com/quantlab/backtester/pkg/id"
	"github.com/quantlab/backtester/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a CSV price table",
	Long: `Run replays a historical price table through a strategy and prints the
performance summary.

The price CSV needs a header of "date,TICKER1,TICKER2,..." with one closing
price per ticker per row; empty cells mean no price for that ticker on that
date. Configuration can come from a YAML/JSON file (-c), from flags, or both
(flags win).

Example:
  backtester run -p prices.csv -s ma-cross --tickers AAPL,MSFT --short 20 --long 50`,
	RunE: runRun,
}

var (
	runConfigPath string
	runPricesPath string
	runCash       float64
	runCommission float64
	runFlatFee    float64
	runRiskFree   float64
	runStart      string
	runEnd        string

	runStrategy string
	runTickers  []string
	runShort    int
	runLong     int
	runLookback int
	runEntryZ   float64
	runExitZ    float64
	runTopN     int
	runRebal    int
	runPeriod   int
	runOversold float64
	runOverbght float64
	runPosSize  float64

	runDBPath     string
	runTradesCSV  string
	runEquityCSV  string
	runEquityOut  string
	runReportPath string
	runLogLevel   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to YAML/JSON run configuration")
	runCmd.Flags().StringVarP(&runPricesPath, "prices", "p", "", "path to price CSV (date,TICKER,...)")
	runCmd.Flags().Float64Var(&runCash, "cash", 100_000, "initial cash")
	runCmd.Flags().Float64Var(&runCommission, "commission", 0, "proportional commission rate (0.001 = 0.1%)")
	runCmd.Flags().Float64Var(&runFlatFee, "flat-commission", 0, "flat commission per trade (overrides --commission)")
	runCmd.Flags().Float64Var(&runRiskFree, "risk-free", 0, "annualized risk-free rate for the Sharpe ratio")
	runCmd.Flags().StringVar(&runStart, "start", "", "restrict the table to dates >= YYYY-MM-DD")
	runCmd.Flags().StringVar(&runEnd, "end", "", "restrict the table to dates <= YYYY-MM-DD")

	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "buy-and-hold", "strategy name (see 'backtester strategies')")
	runCmd.Flags().StringSliceVar(&runTickers, "tickers", nil, "tickers the strategy trades (default: every table column)")
	runCmd.Flags().IntVar(&runShort, "short", 0, "ma-cross: short SMA window")
	runCmd.Flags().IntVar(&runLong, "long", 0, "ma-cross: long SMA window")
	runCmd.Flags().IntVar(&runLookback, "lookback", 0, "mean-reversion/momentum: trailing window in bars")
	runCmd.Flags().Float64Var(&runEntryZ, "entry-z", 0, "mean-reversion: entry z-score")
	runCmd.Flags().Float64Var(&runExitZ, "exit-z", 0, "mean-reversion: exit z-score")
	runCmd.Flags().IntVar(&runTopN, "top-n", 0, "momentum: number of tickers to hold")
	runCmd.Flags().IntVar(&runRebal, "rebalance-days", 0, "momentum: bars between rebalances")
	runCmd.Flags().IntVar(&runPeriod, "period", 0, "rsi: lookback period")
	runCmd.Flags().Float64Var(&runOversold, "oversold", 0, "rsi: buy threshold")
	runCmd.Flags().Float64Var(&runOverbght, "overbought", 0, "rsi: sell threshold")
	runCmd.Flags().Float64Var(&runPosSize, "position-size", 0, "fraction of equity per entry")

	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "journal trades/equity/run to this SQLite file")
	runCmd.Flags().StringVar(&runTradesCSV, "trades-csv", "", "journal trades to this CSV file")
	runCmd.Flags().StringVar(&runEquityCSV, "equity-csv", "", "journal equity snapshots to this CSV file")
	runCmd.Flags().StringVarP(&runEquityOut, "equity-out", "o", "", "export the final equity curve to this CSV file")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "write an org-mode run report to this path")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level)

	table, err := market.LoadCSV(cfg.Data.CSVPath)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	table, err = windowTable(table, cfg.Data.Start, cfg.Data.End)
	if err != nil {
		return err
	}

	if len(cfg.Strategy.Params.Tickers) == 0 {
		cfg.Strategy.Params.Tickers = table.Tickers()
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Params)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	var commission backtest.CommissionModel
	if cfg.Backtest.FlatCommission > 0 {
		commission = backtest.Flat{Amount: cfg.Backtest.FlatCommission}
	} else {
		commission, err = backtest.NewProportional(cfg.Backtest.CommissionRate)
		if err != nil {
			return err
		}
	}

	runID := id.New()
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	meta, err := yaml.Marshal(cfg.Strategy)
	if err != nil {
		return fmt.Errorf("marshal strategy config: %w", err)
	}

	engine, err := backtest.New(table, backtest.Config{
		InitialCash:  cfg.Backtest.InitialCash,
		Commission:   commission,
		RiskFreeRate: cfg.Backtest.RiskFreeRate,
		Logger:       logger,
		Journal:      j,
		RunID:        runID,
		RunMeta:      meta,
	})
	if err != nil {
		return err
	}

	logger.Info("starting backtest",
		"run_id", runID,
		"strategy", strat.Name(),
		"bars", table.Len(),
		"tickers", strings.Join(table.Tickers(), ","),
	)

	res, err := engine.Run(strat)
	if err != nil {
		return err
	}

	fmt.Print(res.Summary())

	if runEquityOut != "" {
		f, err := os.Create(runEquityOut)
		if err != nil {
			return fmt.Errorf("create equity export: %w", err)
		}
		defer f.Close()
		if err := res.WriteEquityCSV(f); err != nil {
			return fmt.Errorf("export equity curve: %w", err)
		}
	}

	if cfg.Journal.ReportPath != "" {
		rec := res.RunRecord(runID, meta)
		if err := rec.WriteOrgReport(cfg.Journal.ReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

// buildConfig merges the optional config file with flag overrides; any flag
// the user set wins over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		cfg.Backtest.InitialCash = runCash
		cfg.Logging.Level = runLogLevel
	}

	set := cmd.Flags().Changed

	if set("prices") {
		cfg.Data.CSVPath = runPricesPath
	}
	if set("start") {
		cfg.Data.Start = runStart
	}
	if set("end") {
		cfg.Data.End = runEnd
	}
	if set("cash") {
		cfg.Backtest.InitialCash = runCash
	}
	if set("commission") {
		cfg.Backtest.CommissionRate = runCommission
	}
	if set("flat-commission") {
		cfg.Backtest.FlatCommission = runFlatFee
	}
	if set("risk-free") {
		cfg.Backtest.RiskFreeRate = runRiskFree
	}
	if set("log-level") {
		cfg.Logging.Level = runLogLevel
	}

	if set("strategy") || cfg.Strategy.Name == "" {
		cfg.Strategy.Name = runStrategy
	}
	p := &cfg.Strategy.Params
	if set("tickers") {
		p.Tickers = runTickers
	}
	if set("short") {
		p.ShortWindow = runShort
	}
	if set("long") {
		p.LongWindow = runLong
	}
	if set("lookback") {
		p.Lookback = runLookback
	}
	if set("entry-z") {
		p.EntryZScore = runEntryZ
	}
	if set("exit-z") {
		p.ExitZScore = runExitZ
	}
	if set("top-n") {
		p.TopN = runTopN
	}
	if set("rebalance-days") {
		p.RebalanceDays = runRebal
	}
	if set("period") {
		p.Period = runPeriod
	}
	if set("oversold") {
		p.Oversold = runOversold
	}
	if set("overbought") {
		p.Overbought = runOverbght
	}
	if set("position-size") {
		p.PositionSize = runPosSize
	}

	if set("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}
	if set("trades-csv") || set("equity-csv") {
		cfg.Journal.Type = "csv"
		cfg.Journal.TradesFile = runTradesCSV
		cfg.Journal.EquityFile = runEquityCSV
	}
	if set("report") {
		cfg.Journal.ReportPath = runReportPath
	}

	if cfg.Data.CSVPath == "" {
		return nil, fmt.Errorf("a price CSV is required (use -p or data.csv_path in the config)")
	}
	return cfg, nil
}

func windowTable(table *market.Table, start, end string) (*market.Table, error) {
	if start == "" && end == "" {
		return table, nil
	}

	var s, e time.Time
	var err error
	if start != "" {
		s, err = time.Parse("2006-01-02", start)
		if err != nil {
			return nil, fmt.Errorf("bad start date %q: %w", start, err)
		}
	}
	if end != "" {
		e, err = time.Parse("2006-01-02", end)
		if err != nil {
			return nil, fmt.Errorf("bad end date %q: %w", end, err)
		}
	}

	out := table.Between(s, e)
	if out.Len() == 0 {
		return nil, fmt.Errorf("no bars between %q and %q", start, end)
	}
	return out, nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
