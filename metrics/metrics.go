// Package metrics exposes Prometheus collectors for the paper bot:
//
//   - bot_candles_total{market}        - closed candles processed
//   - bot_decisions_total{outcome}     - entry evaluations by outcome
//   - bot_orders_total{side}           - paper fills (buy|sell)
//   - bot_exit_reasons_total{reason}   - exits split by reason (TP|SL|SL_TIE|EXIT)
//   - bot_equity                       - marked equity snapshot (gauge)
//   - bot_score                        - latest model score (gauge)
//
// Handler() serves them in Prometheus text exposition format; the live
// command mounts it at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Candles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_candles_total",
			Help: "Closed candles processed",
		},
		[]string{"market"},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Entry evaluations by outcome",
		},
		[]string{"outcome"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Paper fills",
		},
		[]string{"side"},
	)

	ExitReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_exit_reasons_total",
			Help: "Exits split by reason",
		},
		[]string{"reason"},
	)

	Equity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_equity",
			Help: "Marked equity in account currency",
		},
	)

	Score = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_score",
			Help: "Latest model score",
		},
	)

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(Candles, Decisions, Orders, ExitReasons, Equity, Score)
}

// Handler returns the HTTP handler for the bot's metric registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
