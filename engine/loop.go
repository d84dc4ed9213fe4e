package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snoopy0103/upbit-ml-paperbot/journal"
	"github.com/snoopy0103/upbit-ml-paperbot/market"
	"github.com/snoopy0103/upbit-ml-paperbot/metrics"
	"github.com/snoopy0103/upbit-ml-paperbot/paper"
	"github.com/snoopy0103/upbit-ml-paperbot/risk"
)

// Config holds the decision parameters for one loop instance. It is
// passed to NewLoop explicitly; there is no package-level state.
type Config struct {
	Market         string
	TakeProfitPct  float64 // e.g. 0.015
	StopLossPct    float64 // e.g. 0.009
	EntryThreshold float64 // e.g. 0.60; score >= threshold enters
	MinHistory     int     // candles required before scoring (default 200)
	HistoryLen     int     // trailing window kept in memory (default 600)
	ScoreTimeout   time.Duration // budget for one Score call (default 5s)
}

func (c *Config) applyDefaults() {
	if c.MinHistory <= 0 {
		c.MinHistory = 200
	}
	if c.HistoryLen <= 0 {
		c.HistoryLen = 600
	}
	if c.HistoryLen < c.MinHistory {
		c.HistoryLen = c.MinHistory
	}
	if c.ScoreTimeout <= 0 {
		c.ScoreTimeout = 5 * time.Second
	}
}

// Loop runs the per-candle decision cycle: exits first, risk bookkeeping,
// then (when flat) score → guard → buy. One loop per market; OnCandle
// must be called from a single goroutine in candle order.
type Loop struct {
	cfg Config

	ledger   *paper.Ledger
	gate     *risk.Gate
	guard    *risk.Guard
	features FeatureSource
	scorer   Scorer
	journal  journal.Journal
	log      *logrus.Logger

	history     []market.Candle
	equityCurve []float64
}

// NewLoop wires the decision loop. journal may be nil (no equity
// persistence); logger may be nil (discards output).
func NewLoop(cfg Config, ledger *paper.Ledger, gate *risk.Gate, guard *risk.Guard,
	features FeatureSource, scorer Scorer, j journal.Journal, log *logrus.Logger) *Loop {

	cfg.applyDefaults()
	if j == nil {
		j = journal.Discard{}
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(nowhere{})
	}
	return &Loop{
		cfg:      cfg,
		ledger:   ledger,
		gate:     gate,
		guard:    guard,
		features: features,
		scorer:   scorer,
		journal:  j,
		log:      log,
	}
}

type nowhere struct{}

func (nowhere) Write(p []byte) (int, error) { return len(p), nil }

// OnCandle processes one closed candle. Ordering matters: the exit check
// and the risk-gate update must land before the entry evaluation so a
// fresh cooldown or streak is visible to the same candle's entry check.
func (l *Loop) OnCandle(ctx context.Context, c market.Candle) {
	metrics.Candles.WithLabelValues(l.cfg.Market).Inc()

	l.history = append(l.history, c)
	if len(l.history) > l.cfg.HistoryLen {
		l.history = l.history[len(l.history)-l.cfg.HistoryLen:]
	}

	if l.ledger.CanSell() {
		l.checkExit(c)
	}

	if l.ledger.CanBuy() {
		l.tryEnter(ctx, c)
	}

	marked := l.ledger.MarkedEquity(c.Close)
	l.equityCurve = append(l.equityCurve, marked)
	metrics.Equity.Set(marked)
	if err := l.journal.RecordEquity(journal.EquitySnapshot{
		Time:    c.Time,
		Balance: l.ledger.Balance(),
		Equity:  marked,
	}); err != nil {
		l.log.WithError(err).Warn("record equity")
	}
}

func (l *Loop) checkExit(c market.Candle) {
	if err := l.ledger.CheckExitOnBar(c.High, c.Low, c.Time, l.cfg.TakeProfitPct, l.cfg.StopLossPct); err != nil {
		l.log.WithError(err).Warn("journal exit fill")
	}
	if l.ledger.CanSell() {
		return // still long, nothing closed
	}

	last, ok := l.ledger.LastSell()
	if !ok {
		return
	}
	// Exactly one RecordResult per closed trade.
	l.gate.RecordResult(last.PnL, c.Time)
	metrics.Orders.WithLabelValues("sell").Inc()
	metrics.ExitReasons.WithLabelValues(last.Reason).Inc()
	l.log.WithFields(logrus.Fields{
		"market":  l.cfg.Market,
		"price":   last.Price,
		"pnl":     last.PnL,
		"reason":  last.Reason,
		"balance": last.Balance,
	}).Info("paper sell")
}

func (l *Loop) tryEnter(ctx context.Context, c market.Candle) {
	if len(l.history) < l.cfg.MinHistory {
		return
	}

	vec, ok := l.features.Compute(l.history)
	if !ok {
		return
	}
	aligned := AlignFeatures(vec, l.scorer.FeatureNames())

	scoreCtx, cancel := context.WithTimeout(ctx, l.cfg.ScoreTimeout)
	defer cancel()

	score, err := l.scorer.Score(scoreCtx, aligned)
	if err != nil {
		// Timeout or model failure means no signal for this candle.
		l.log.WithError(err).Warn("score failed, skipping candle")
		metrics.Decisions.WithLabelValues("score_error").Inc()
		return
	}
	metrics.Score.Set(score)

	if score < l.cfg.EntryThreshold {
		metrics.Decisions.WithLabelValues("below_threshold").Inc()
		return
	}

	decision := l.guard.EvaluateEntry(risk.EntryRequest{
		Equity:  l.ledger.Balance(),
		Now:     c.Time,
		Price:   c.Close,
		StopPct: l.cfg.StopLossPct,
	})
	metrics.Decisions.WithLabelValues(decision.Reason).Inc()
	if !decision.Allowed {
		l.log.WithFields(logrus.Fields{
			"market": l.cfg.Market,
			"score":  score,
			"reason": decision.Reason,
		}).Info("entry blocked")
		return
	}

	if err := l.ledger.Buy(c.Close, c.Time, decision.Sizing.AmountToSpend); err != nil {
		l.log.WithError(err).Warn("journal buy fill")
	}
	metrics.Orders.WithLabelValues("buy").Inc()
	l.log.WithFields(logrus.Fields{
		"market": l.cfg.Market,
		"price":  c.Close,
		"spend":  decision.Sizing.AmountToSpend,
		"score":  score,
	}).Info("paper buy")
}

// EquityCurve returns the marked equity after each processed candle.
// Read-only.
func (l *Loop) EquityCurve() []float64 { return l.equityCurve }

// Ledger exposes the underlying account for reporting.
func (l *Loop) Ledger() *paper.Ledger { return l.ledger }

// HistoryLen reports how many candles are currently buffered.
func (l *Loop) HistoryLen() int { return len(l.history) }
