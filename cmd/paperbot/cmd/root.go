package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snoopy0103/upbit-ml-paperbot/config"
)

var rootCmd = &cobra.Command{
	Use:   "paperbot",
	Short: "A single-position crypto paper-trading bot",
	Long: `Paperbot is a paper-trading bot for Upbit spot markets.

It provides tools for:
  - Backtesting the entry model against historical 5m candles
  - Live paper trading from the Upbit trade websocket
  - Risk-gated, risk-based position sizing
  - Trade and equity journaling to CSV or SQLite`,
}

var (
	cfgPath  string
	logLevel string
	logJSON  bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}

// loadConfig returns the file config when --config is set, defaults
// otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

func newLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	if logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}
