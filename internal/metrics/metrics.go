// Package metrics exposes Prometheus collectors for statement parsing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// Outcome labels for ParsesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeAborted = "aborted"
	OutcomeFailed  = "failed"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	ParsesTotal       *prometheus.CounterVec
	TransactionsTotal *prometheus.CounterVec
	WarningsTotal     *prometheus.CounterVec
	Confidence        *prometheus.HistogramVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ParsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement",
			Name:      "parses_total",
			Help:      "Statement parses by family and outcome.",
		}, []string{"family", "outcome"}),
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement",
			Name:      "transactions_total",
			Help:      "Transaction records extracted.",
		}, []string{"family"}),
		WarningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement",
			Name:      "warnings_total",
			Help:      "Warnings attached to parse results.",
		}, []string{"family"}),
		Confidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statement",
			Name:      "parse_confidence",
			Help:      "Confidence of successful parses.",
			Buckets:   []float64{0.25, 0.35, 0.5, 0.7, 0.9, 1},
		}, []string{"family"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statement",
			Name:      "convert_duration_seconds",
			Help:      "Time spent serving convert requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	reg.MustRegister(m.ParsesTotal, m.TransactionsTotal, m.WarningsTotal, m.Confidence, m.RequestDuration)
	return m
}

// ObserveResult records one finished parse.
func (m *Metrics) ObserveResult(res models.ParseResult) {
	family := string(res.Family)
	outcome := OutcomeSuccess
	if !res.Success {
		outcome = OutcomeAborted
	}
	m.ParsesTotal.WithLabelValues(family, outcome).Inc()
	m.WarningsTotal.WithLabelValues(family).Add(float64(len(res.Warnings)))
	if res.Success {
		m.TransactionsTotal.WithLabelValues(family).Add(float64(len(res.Data)))
		m.Confidence.WithLabelValues(family).Observe(res.Confidence)
	}
}

// ObserveFailure records a document that never reached the parser.
func (m *Metrics) ObserveFailure(family string) {
	m.ParsesTotal.WithLabelValues(family, OutcomeFailed).Inc()
}
