package metrics

import "github.com/prometheus/client_golang/prometheus"

// PrivacyMetrics exposes counters/histograms for detection and redaction flows.
type PrivacyMetrics struct {
	findingsTotal       *prometheus.CounterVec
	redactionsTotal     *prometheus.CounterVec
	degradedTotal       *prometheus.CounterVec
	collaboratorLatency *prometheus.HistogramVec
}

func NewPrivacyMetrics(reg prometheus.Registerer) *PrivacyMetrics {
	m := &PrivacyMetrics{
		findingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexaid",
			Subsystem: "privacy",
			Name:      "findings_total",
			Help:      "Total PII findings by category and source",
		}, []string{"category", "source"}),
		redactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexaid",
			Subsystem: "privacy",
			Name:      "redactions_total",
			Help:      "Total redaction markers applied by path",
		}, []string{"path"}),
		degradedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexaid",
			Subsystem: "privacy",
			Name:      "degraded_total",
			Help:      "Operations that degraded to pattern-only results",
		}, []string{"operation", "reason"}),
		collaboratorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lexaid",
			Subsystem: "privacy",
			Name:      "collaborator_latency_seconds",
			Help:      "Latency of heuristic collaborator calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.findingsTotal, m.redactionsTotal, m.degradedTotal, m.collaboratorLatency)
	return m
}

func (m *PrivacyMetrics) ObserveFinding(category, source string) {
	if m == nil {
		return
	}
	m.findingsTotal.WithLabelValues(category, source).Inc()
}

func (m *PrivacyMetrics) ObserveRedactions(path string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.redactionsTotal.WithLabelValues(path).Add(float64(count))
}

func (m *PrivacyMetrics) ObserveDegraded(operation, reason string) {
	if m == nil {
		return
	}
	m.degradedTotal.WithLabelValues(operation, reason).Inc()
}

func (m *PrivacyMetrics) ObserveCollaboratorLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.collaboratorLatency.WithLabelValues(operation).Observe(seconds)
}
