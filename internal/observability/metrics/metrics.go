package metrics

import "github.com/prometheus/client_golang/prometheus"

// WizardMetrics exposes counters/histograms for booking wizard flows.
type WizardMetrics struct {
	transitionsTotal *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	submitLatency    prometheus.Histogram
	fallbacksTotal   *prometheus.CounterVec
	staleDiscarded   *prometheus.CounterVec
	activeSessions   prometheus.Gauge
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "step_transitions_total",
			Help:      "Total wizard step changes",
		}, []string{"path", "from", "to"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "submit_latency_seconds",
			Help:      "Latency of booking backend submissions",
			Buckets:   prometheus.DefBuckets,
		}),
		fallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "sample_fallbacks_total",
			Help:      "Fetches answered with bundled sample data",
		}, []string{"resource"}),
		staleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "stale_responses_discarded_total",
			Help:      "Fetch results dropped because a newer request was issued",
		}, []string{"resource"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "wizard",
			Name:      "active_sessions",
			Help:      "Wizard sessions held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.submissionsTotal, m.submitLatency, m.fallbacksTotal, m.staleDiscarded, m.activeSessions)
	return m
}

func (m *WizardMetrics) ObserveTransition(path, from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(path, from, to).Inc()
}

// ObserveSubmission records one submit outcome: accepted, rejected or error.
func (m *WizardMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.submitLatency.Observe(seconds)
}

func (m *WizardMetrics) ObserveFallback(resource string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(resource).Inc()
}

func (m *WizardMetrics) ObserveStaleDiscard(resource string) {
	if m == nil {
		return
	}
	m.staleDiscarded.WithLabelValues(resource).Inc()
}

func (m *WizardMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
