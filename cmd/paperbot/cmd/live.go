package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snoopy0103/upbit-ml-paperbot/engine"
	"github.com/snoopy0103/upbit-ml-paperbot/feed"
	"github.com/snoopy0103/upbit-ml-paperbot/market"
	"github.com/snoopy0103/upbit-ml-paperbot/metrics"
	"github.com/snoopy0103/upbit-ml-paperbot/report"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the paper bot against the live Upbit trade stream",
	Long: `Live subscribes to the Upbit websocket trade stream, aggregates
ticks into 5m candles, and runs the same decision loop as backtest.
No real orders are placed; fills go to the paper ledger and journal.

Stops on SIGINT/SIGTERM and prints the run summary.

Example:
  paperbot live --config bot.yaml`,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
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

	stream, err := feed.NewStream(feed.Config{
		Endpoint: cfg.Feed.Endpoint,
		Markets:  []string{cfg.Strategy.Market},
	}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cfg.Feed.MetricsAddr; addr != "" {
		go serveMetrics(ctx, addr, log)
	}

	go func() {
		if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("feed stopped")
		}
	}()

	agg := market.NewAggregator(5 * time.Minute)
	log.WithField("market", cfg.Strategy.Market).Info("live paper trading started")
	if err := engine.RunLive(ctx, loop, agg, stream.Ticks()); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("live loop: %w", err)
	}

	report.Summarize(loop.Ledger(), loop.EquityCurve()).Print(os.Stdout)
	return nil
}

func serveMetrics(ctx context.Context, addr string, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %v", err)
	}
}
