// Package metrics provides Prometheus metrics for completion calls, tool
// dispatch and spend. All methods are safe on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics collects and exposes toolrun Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	CompletionsTotal   *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	AttemptTimeouts    *prometheus.CounterVec
	TokensTotal        *prometheus.CounterVec
	SpendUSD           prometheus.Gauge
	ToolDispatchTotal  *prometheus.CounterVec
	TurnsTotal         *prometheus.CounterVec
}

// New creates a metrics collector with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		CompletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolrun_completions_total",
				Help: "Completion calls by model and status",
			},
			[]string{"model", "status"},
		),
		CompletionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolrun_completion_duration_seconds",
				Help:    "Latency of single completion calls",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~200s
			},
			[]string{"model"},
		),
		AttemptTimeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolrun_attempt_timeouts_total",
				Help: "Completion attempts abandoned after the per-attempt deadline",
			},
			[]string{"model"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolrun_tokens_total",
				Help: "Tokens charged by model and direction",
			},
			[]string{"model", "direction"},
		),
		SpendUSD: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "toolrun_spend_usd",
				Help: "Cumulative spend in USD",
			},
		),
		ToolDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolrun_tool_dispatch_total",
				Help: "Tool dispatches by tool and result",
			},
			[]string{"tool", "result"},
		),
		TurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolrun_turns_total",
				Help: "Agent turns by classification",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.CompletionsTotal,
		m.CompletionDuration,
		m.AttemptTimeouts,
		m.TokensTotal,
		m.SpendUSD,
		m.ToolDispatchTotal,
		m.TurnsTotal,
	)
	return m
}

// Registry returns the Prometheus registry for exposing metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordCompletion records one completion call.
func (m *Metrics) RecordCompletion(model, status string, durationSec float64) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(model, status).Inc()
	m.CompletionDuration.WithLabelValues(model).Observe(durationSec)
}

// RecordTimeout records an abandoned attempt.
func (m *Metrics) RecordTimeout(model string) {
	if m == nil {
		return
	}
	m.AttemptTimeouts.WithLabelValues(model).Inc()
}

// RecordTokens records charged tokens. Direction is "input" or "output".
func (m *Metrics) RecordTokens(model, direction string, tokens int64) {
	if m == nil || tokens <= 0 {
		return
	}
	m.TokensTotal.WithLabelValues(model, direction).Add(float64(tokens))
}

// SetSpend updates the cumulative spend gauge.
func (m *Metrics) SetSpend(spent decimal.Decimal) {
	if m == nil {
		return
	}
	m.SpendUSD.Set(spent.InexactFloat64())
}

// RecordDispatch records a tool dispatch outcome.
func (m *Metrics) RecordDispatch(tool, result string) {
	if m == nil {
		return
	}
	m.ToolDispatchTotal.WithLabelValues(tool, result).Inc()
}

// RecordTurn records a classified agent turn.
func (m *Metrics) RecordTurn(kind string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(kind).Inc()
}
