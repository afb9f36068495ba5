// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
)

// Metrics bundles the collectors and the registry they live in.
type Metrics struct {
	reg *prometheus.Registry

	SessionsStarted  prometheus.Counter
	SessionsFinished prometheus.Counter
	Resets           prometheus.Counter
	InvalidMoves     prometheus.Counter
	Rounds           *prometheus.CounterVec // by outcome of the recommended move
	Predictions      *prometheus.CounterVec // by source: model | random
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rps_sessions_started_total",
			Help: "Sessions created.",
		}),
		SessionsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rps_sessions_finished_total",
			Help: "Sessions that reached their round cap.",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rps_session_resets_total",
			Help: "Session resets.",
		}),
		InvalidMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rps_invalid_moves_total",
			Help: "Rejected opponent moves.",
		}),
		Rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rps_rounds_total",
			Help: "Rounds played, by outcome of the recommended move.",
		}, []string{"outcome"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rps_predictions_total",
			Help: "Predictions made, by source.",
		}, []string{"source"}),
	}
	m.reg.MustRegister(
		m.SessionsStarted, m.SessionsFinished, m.Resets, m.InvalidMoves,
		m.Rounds, m.Predictions,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRound counts a scored round.
func (m *Metrics) ObserveRound(o move.Outcome) {
	m.Rounds.WithLabelValues(string(o)).Inc()
}

// ObserveRecommendation counts where a recommendation came from.
func (m *Metrics) ObserveRecommendation(r predict.Recommendation) {
	source := "model"
	if r.Random {
		source = "random"
	}
	m.Predictions.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
