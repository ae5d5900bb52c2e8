// Package metrics exposes Prometheus instrumentation for request processing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics tracks request and step outcomes.
type AgentMetrics struct {
	requestsTotal  *prometheus.CounterVec
	stepsTotal     *prometheus.CounterVec
	refusalsTotal  prometheus.Counter
	requestLatency prometheus.Histogram
}

// New registers the agent metrics on reg (or the default registerer when nil).
func New(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflow_agent",
			Subsystem: "requests",
			Name:      "total",
			Help:      "Processed requests by final status",
		}, []string{"status", "dry_run"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflow_agent",
			Subsystem: "steps",
			Name:      "total",
			Help:      "Executed plan steps by action and status",
		}, []string{"action", "status"}),
		refusalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workflow_agent",
			Subsystem: "safety",
			Name:      "refusals_total",
			Help:      "Requests refused by the safety validator",
		}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "workflow_agent",
			Subsystem: "requests",
			Name:      "duration_seconds",
			Help:      "End-to-end request processing latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.stepsTotal, m.refusalsTotal, m.requestLatency)
	return m
}

// ObserveRequest records one completed request.
func (m *AgentMetrics) ObserveRequest(status string, dryRun bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if dryRun {
		label = "true"
	}
	m.requestsTotal.WithLabelValues(status, label).Inc()
	m.requestLatency.Observe(seconds)
}

// ObserveStep records one executed plan step.
func (m *AgentMetrics) ObserveStep(action, status string) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(action, status).Inc()
}

// ObserveRefusal records a safety refusal.
func (m *AgentMetrics) ObserveRefusal() {
	if m == nil {
		return
	}
	m.refusalsTotal.Inc()
}
