package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the built-in strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Built-in strategies:")
		fmt.Println("  buy-and-hold    buy on the first bar, hold forever")
		fmt.Println("  ma-cross        SMA crossover entries and exits")
		fmt.Println("  mean-reversion  z-score dip buying")
		fmt.Println("  momentum        periodic top-N rotation by trailing return")
		fmt.Println("  rsi             RSI oversold/overbought thresholds")
		fmt.Println("  noop            never trades (wiring test)")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
