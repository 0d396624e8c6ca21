package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantlab/backtester/config"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a default run configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configOut); err != nil {
			return err
		}
		fmt.Printf("wrote default configuration to %s\n", configOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configOut, "out", "o", "./backtest.yaml", "output path (.yaml/.yml or .json)")
}
