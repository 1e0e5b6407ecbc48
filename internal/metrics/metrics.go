// Package metrics exposes Prometheus counters for catalog activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded by the enricher.
const (
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeFailed    = "failed"
	OutcomeFallback  = "by_statement"
	OutcomeResolved  = "resolved"
	OutcomeSkipped   = "skipped"
	ResultOK         = "ok"
	ResultError      = "error"
	ResultNotFound   = "not_found"
	ResultExists     = "already_exists"
	ResultBadState   = "invalid_state"
	ResultValidation = "validation"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Lookups       *prometheus.CounterVec
	AuthorLookups *prometheus.CounterVec
	Operations    *prometheus.CounterVec
	Books         prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookcatalog",
			Name:      "lookups_total",
			Help:      "ISBN lookups against the bibliographic service, by outcome.",
		}, []string{"outcome"}),
		AuthorLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookcatalog",
			Name:      "author_lookups_total",
			Help:      "Author reference resolutions, by outcome.",
		}, []string{"outcome"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookcatalog",
			Name:      "operations_total",
			Help:      "Catalog operations, by operation and result.",
		}, []string{"operation", "result"}),
		Books: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bookcatalog",
			Name:      "books",
			Help:      "Number of books currently in the catalog.",
		}),
	}
	reg.MustRegister(m.Lookups, m.AuthorLookups, m.Operations, m.Books)
	return m
}

func (m *Metrics) Lookup(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AuthorLookup(outcome string) {
	if m == nil {
		return
	}
	m.AuthorLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Operation(op, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) SetBooks(n int) {
	if m == nil {
		return
	}
	m.Books.Set(float64(n))
}
