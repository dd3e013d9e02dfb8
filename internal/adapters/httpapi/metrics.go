package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP instrumentation of the API.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SkippedRecords  prometheus.Counter
}

// NewMetrics registers the API collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trade_ledger",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trade_ledger",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Time to serve an HTTP request in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		SkippedRecords: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "trade_ledger",
				Subsystem: "journal",
				Name:      "skipped_records_total",
				Help:      "Trade records skipped for an unusable date or outcome",
			},
		),
	}
}

// RecordsSkipped implements ports.JournalMetrics.
func (m *Metrics) RecordsSkipped(n int) {
	m.SkippedRecords.Add(float64(n))
}
