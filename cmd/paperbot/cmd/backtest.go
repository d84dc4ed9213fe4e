package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snoopy0103/upbit-ml-paperbot/engine"
	"github.com/snoopy0103/upbit-ml-paperbot/market"
	"github.com/snoopy0103/upbit-ml-paperbot/report"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay historical candles through the decision loop",
	Long: `Backtest replays a historical 5m OHLCV file through the exact
decision loop the live bot runs and prints a performance summary.

The history file is a CSV with a datetime,open,high,low,close,volume
header; .xz and .zip compressed archives are read directly.

Example:
  paperbot backtest --history data/krw-btc-5m.csv.xz --config bot.yaml`,
	RunE: runBacktest,
}

var btHistoryPath string

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btHistoryPath, "history", "H", "", "path to candle history (.csv, .csv.xz or .zip) (required)")
	backtestCmd.MarkFlagRequired("history")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	loop, err := buildLoop(cfg, j, log)
	if err != nil {
		return err
	}

	candles, err := market.LoadHistoryCSV(btHistoryPath)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	log.WithField("candles", len(candles)).Info("history loaded")

	if err := engine.RunBacktest(cmd.Context(), loop, candles); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	report.Summarize(loop.Ledger(), loop.EquityCurve()).Print(os.Stdout)
	return nil
}
