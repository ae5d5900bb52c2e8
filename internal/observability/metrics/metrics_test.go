package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("SUCCESS", false, 0.01)
	m.ObserveRequest("SUCCESS", false, 0.02)
	m.ObserveRequest("REFUSED", true, 0.001)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("SUCCESS", "false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("REFUSED", "true")))
}

func TestObserveStep(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStep("search_patient", "SUCCESS")
	m.ObserveStep("book_appointment", "SKIPPED")
	m.ObserveStep("book_appointment", "SKIPPED")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.stepsTotal.WithLabelValues("search_patient", "SUCCESS")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.stepsTotal.WithLabelValues("book_appointment", "SKIPPED")))
}

func TestObserveRefusal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRefusal()
	m.ObserveRefusal()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.refusalsTotal))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *AgentMetrics
	m.ObserveRequest("SUCCESS", false, 0)
	m.ObserveStep("search_patient", "SUCCESS")
	m.ObserveRefusal()
}
