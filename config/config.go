// Package config loads and validates backtest run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quantlab/backtester/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents a complete backtest run configuration.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// DataConfig locates the historical price table.
type DataConfig struct {
	CSVPath string `json:"csv_path" yaml:"csv_path"`
	Start   string `json:"start,omitempty" yaml:"start,omitempty"` // YYYY-MM-DD, optional
	End     string `json:"end,omitempty" yaml:"end,omitempty"`     // YYYY-MM-DD, optional
}

// BacktestConfig holds the engine parameters.
type BacktestConfig struct {
	InitialCash    float64 `json:"initial_cash" yaml:"initial_cash"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	FlatCommission float64 `json:"flat_commission,omitempty" yaml:"flat_commission,omitempty"`
	RiskFreeRate   float64 `json:"risk_free_rate,omitempty" yaml:"risk_free_rate,omitempty"`
}

// StrategyConfig names the strategy and carries its parameters.
type StrategyConfig struct {
	Name   string            `json:"name" yaml:"name"`
	Params strategies.Params `json:"params" yaml:"params"`
}

// JournalConfig controls run persistence.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and then
// JSON, and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML or JSON based on the extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path is required")
	}
	if c.Backtest.InitialCash <= 0 {
		return fmt.Errorf("backtest.initial_cash must be positive")
	}
	if c.Backtest.CommissionRate < 0 {
		return fmt.Errorf("backtest.commission_rate must be >= 0")
	}
	if c.Backtest.FlatCommission < 0 {
		return fmt.Errorf("backtest.flat_commission must be >= 0")
	}
	if c.Backtest.CommissionRate > 0 && c.Backtest.FlatCommission > 0 {
		return fmt.Errorf("set either backtest.commission_rate or backtest.flat_commission, not both")
	}

	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	known := false
	for _, name := range strategies.Names() {
		if name == c.Strategy.Name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown strategy %q (supported: %s)",
			c.Strategy.Name, strings.Join(strategies.Names(), ", "))
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			CSVPath: "./prices.csv",
		},
		Backtest: BacktestConfig{
			InitialCash:    100000,
			CommissionRate: 0.001,
		},
		Strategy: StrategyConfig{
			Name: "buy-and-hold",
			Params: strategies.Params{
				Tickers: []string{"AAPL", "MSFT"},
			},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtests.sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
