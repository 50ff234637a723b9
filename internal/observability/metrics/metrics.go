package metrics

import "github.com/prometheus/client_golang/prometheus"

// AdvisorMetrics exposes counters/histograms for the AI dispatch path.
type AdvisorMetrics struct {
	attemptsTotal   *prometheus.CounterVec
	dispatchTotal   *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
}

func NewAdvisorMetrics(reg prometheus.Registerer) *AdvisorMetrics {
	m := &AdvisorMetrics{
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocklens",
			Subsystem: "advisor",
			Name:      "provider_attempts_total",
			Help:      "Total completion attempts per provider",
		}, []string{"provider", "status"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocklens",
			Subsystem: "advisor",
			Name:      "dispatch_total",
			Help:      "Total dispatches by outcome",
		}, []string{"outcome"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stocklens",
			Subsystem: "advisor",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of a full dispatch including failed attempts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.attemptsTotal, m.dispatchTotal, m.dispatchLatency)
	return m
}

func (m *AdvisorMetrics) ObserveAttempt(provider, status string) {
	if m == nil {
		return
	}
	m.attemptsTotal.WithLabelValues(provider, status).Inc()
}

func (m *AdvisorMetrics) ObserveDispatch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome).Inc()
	m.dispatchLatency.WithLabelValues(outcome).Observe(seconds)
}
