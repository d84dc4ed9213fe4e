package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration shared by backtest and live
// runs.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Sizer    SizerConfig    `json:"sizer" yaml:"sizer"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
}

// AccountConfig contains paper-account initialization parameters.
type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
	FeeRate float64 `json:"fee_rate" yaml:"fee_rate"`
}

// StrategyConfig contains entry/exit parameters.
type StrategyConfig struct {
	Market         string  `json:"market" yaml:"market"`
	TakeProfitPct  float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
	StopLossPct    float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	EntryThreshold float64 `json:"entry_threshold" yaml:"entry_threshold"`
	MinHistory     int     `json:"min_history" yaml:"min_history"`
	HistoryLen     int     `json:"history_len" yaml:"history_len"`
	ModelPath      string  `json:"model_path,omitempty" yaml:"model_path,omitempty"`
}

// RiskConfig contains the daily-loss and loss-streak cutoffs.
type RiskConfig struct {
	MaxDailyLossPct      float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`
	Cooldown             string  `json:"cooldown" yaml:"cooldown"` // e.g. "60m"
}

// ParseCooldown converts the cooldown string to a duration.
func (r RiskConfig) ParseCooldown() (time.Duration, error) {
	if r.Cooldown == "" {
		return 0, nil
	}
	return time.ParseDuration(r.Cooldown)
}

// SizerConfig contains position-sizing parameters.
type SizerConfig struct {
	RiskPerTradePct  float64 `json:"risk_per_trade_pct" yaml:"risk_per_trade_pct"`
	MaxAllocationPct float64 `json:"max_allocation_pct" yaml:"max_allocation_pct"`
	MinOrderAmount   float64 `json:"min_order_amount" yaml:"min_order_amount"`
	FeeRoundtripPct  float64 `json:"fee_roundtrip_pct" yaml:"fee_roundtrip_pct"`
}

// JournalConfig selects the persistence backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// FeedConfig contains live-feed parameters.
type FeedConfig struct {
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON). Missing
// fields keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file, format picked by extension.
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
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.FeeRate < 0 || c.Account.FeeRate >= 1 {
		return fmt.Errorf("account.fee_rate must be in [0,1)")
	}
	if c.Strategy.Market == "" {
		return fmt.Errorf("strategy.market is required")
	}
	if c.Strategy.TakeProfitPct <= 0 {
		return fmt.Errorf("strategy.take_profit_pct must be positive")
	}
	if c.Strategy.StopLossPct <= 0 {
		return fmt.Errorf("strategy.stop_loss_pct must be positive")
	}
	if c.Strategy.EntryThreshold <= 0 || c.Strategy.EntryThreshold >= 1 {
		return fmt.Errorf("strategy.entry_threshold must be in (0,1)")
	}
	if c.Strategy.HistoryLen > 0 && c.Strategy.MinHistory > c.Strategy.HistoryLen {
		return fmt.Errorf("strategy.min_history must not exceed strategy.history_len")
	}
	if c.Risk.MaxDailyLossPct <= 0 {
		return fmt.Errorf("risk.max_daily_loss_pct must be positive")
	}
	if c.Risk.MaxConsecutiveLosses <= 0 {
		return fmt.Errorf("risk.max_consecutive_losses must be positive")
	}
	if _, err := c.Risk.ParseCooldown(); err != nil {
		return fmt.Errorf("risk.cooldown: %w", err)
	}
	if c.Sizer.RiskPerTradePct <= 0 {
		return fmt.Errorf("sizer.risk_per_trade_pct must be positive")
	}
	if c.Sizer.MaxAllocationPct <= 0 || c.Sizer.MaxAllocationPct > 100 {
		return fmt.Errorf("sizer.max_allocation_pct must be in (0,100]")
	}
	if c.Sizer.MinOrderAmount < 0 {
		return fmt.Errorf("sizer.min_order_amount must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns the configuration the bot ships with.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance: 1_000_000,
			FeeRate: 0.001,
		},
		Strategy: StrategyConfig{
			Market:         "KRW-BTC",
			TakeProfitPct:  0.015,
			StopLossPct:    0.009,
			EntryThreshold: 0.60,
			MinHistory:     200,
			HistoryLen:     600,
		},
		Risk: RiskConfig{
			MaxDailyLossPct:      3.0,
			MaxConsecutiveLosses: 3,
			Cooldown:             "60m",
		},
		Sizer: SizerConfig{
			RiskPerTradePct:  0.30,
			MaxAllocationPct: 10.0,
			MinOrderAmount:   5000,
			FeeRoundtripPct:  0.10,
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Feed: FeedConfig{
			MetricsAddr: ":9180",
		},
	}
}
