package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "An event-driven backtesting engine for trading strategies",
	Long: `Backtester replays historical price data bar-by-bar through a trading
strategy, executing its orders against a simulated portfolio under cash and
commission constraints.

It provides tools for:
  - Backtesting built-in or custom strategies over CSV price tables
  - Journaling trades, equity curves, and run summaries to CSV or SQLite
  - Deriving risk and performance statistics (CAGR, Sharpe, drawdown)
  - Exporting equity curves and org-mode research reports`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
