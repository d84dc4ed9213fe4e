package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snoopy0103/upbit-ml-paperbot/config"
	"github.com/snoopy0103/upbit-ml-paperbot/engine"
	"github.com/snoopy0103/upbit-ml-paperbot/features"
	"github.com/snoopy0103/upbit-ml-paperbot/journal"
	"github.com/snoopy0103/upbit-ml-paperbot/model"
	"github.com/snoopy0103/upbit-ml-paperbot/paper"
	"github.com/snoopy0103/upbit-ml-paperbot/risk"
)

// openJournal builds the journal backend selected by the config.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "none", "":
		return journal.Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

// buildLoop wires ledger, risk gate, guard, features and scorer into a
// decision loop from the config.
func buildLoop(cfg *config.Config, j journal.Journal, log *logrus.Logger) (*engine.Loop, error) {
	cooldown, err := cfg.Risk.ParseCooldown()
	if err != nil {
		return nil, fmt.Errorf("risk.cooldown: %w", err)
	}

	ledger := paper.NewLedger(cfg.Strategy.Market, cfg.Account.Balance, cfg.Account.FeeRate, j)
	gate := risk.NewGate(risk.GatePolicy{
		MaxDailyLossPct:      cfg.Risk.MaxDailyLossPct,
		MaxConsecutiveLosses: cfg.Risk.MaxConsecutiveLosses,
		Cooldown:             cooldown,
	})
	guard := risk.NewGuard(gate, risk.NewSizer(risk.SizerPolicy{
		RiskPerTradePct:  cfg.Sizer.RiskPerTradePct,
		MaxAllocationPct: cfg.Sizer.MaxAllocationPct,
		MinOrderAmount:   cfg.Sizer.MinOrderAmount,
		FeeRoundtripPct:  cfg.Sizer.FeeRoundtripPct,
	}))

	src := features.Source{MinLength: cfg.Strategy.MinHistory}
	scorer, err := loadScorer(cfg, src, log)
	if err != nil {
		return nil, err
	}

	loop := engine.NewLoop(engine.Config{
		Market:         cfg.Strategy.Market,
		TakeProfitPct:  cfg.Strategy.TakeProfitPct,
		StopLossPct:    cfg.Strategy.StopLossPct,
		EntryThreshold: cfg.Strategy.EntryThreshold,
		MinHistory:     cfg.Strategy.MinHistory,
		HistoryLen:     cfg.Strategy.HistoryLen,
	}, ledger, gate, guard, src, scorer, j, log)
	return loop, nil
}

func loadScorer(cfg *config.Config, src features.Source, log *logrus.Logger) (engine.Scorer, error) {
	if cfg.Strategy.ModelPath != "" {
		m, err := model.Load(cfg.Strategy.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		log.WithField("path", cfg.Strategy.ModelPath).Info("model loaded")
		return m, nil
	}
	// Untrained fallback: near-0.5 scores that stay below any sane
	// entry threshold.
	log.Warn("no model_path configured, using an untrained model")
	return model.New(src.Names(), time.Now().UnixNano()), nil
}
