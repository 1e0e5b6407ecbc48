package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Lookup(OutcomeFound)
	m.Lookup(OutcomeFound)
	m.Lookup(OutcomeNotFound)
	m.AuthorLookup(OutcomeFailed)
	m.Operation("add_manual", ResultOK)
	m.SetBooks(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorLookups.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_manual", ResultOK)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Books))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Lookup(OutcomeFound)
		m.AuthorLookup(OutcomeResolved)
		m.Operation("remove", ResultNotFound)
		m.SetBooks(1)
	})
}
