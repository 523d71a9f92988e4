// Package metrics holds the Prometheus collectors for the chat send flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orgchat"

// Metrics reports chat activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	messages        *prometheus.CounterVec
	debugIntercepts *prometheus.CounterVec
	backendFailures prometheus.Counter
	backendDuration prometheus.Histogram
}

// MustNew builds the collectors and registers them on reg, panicking on a registration
// error. Tests should pass a fresh prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "messages_total",
				Help:      "Messages appended to transcripts, by sender.",
			},
			[]string{"sender"},
		),
		debugIntercepts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "debug_intercepts_total",
				Help:      "Backend replies replaced by a fallback because they looked like debug output.",
			},
			[]string{"category", "signature"},
		),
		backendFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "backend_failures_total",
				Help:      "Chat calls to the backend that failed and were answered with an apology.",
			},
		),
		backendDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "backend_duration_seconds",
				Help:      "Latency of chat calls to the backend.",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
		),
	}
	reg.MustRegister(m.messages, m.debugIntercepts, m.backendFailures, m.backendDuration)
	return m
}

// IncMessage counts one appended message.
func (m *Metrics) IncMessage(sender string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(sender).Inc()
}

// IncDebugIntercept counts a reply swapped for the fallback of category.
func (m *Metrics) IncDebugIntercept(category, signature string) {
	if m == nil {
		return
	}
	m.debugIntercepts.WithLabelValues(category, signature).Inc()
}

// ObserveBackend records one backend chat call.
func (m *Metrics) ObserveBackend(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.backendDuration.Observe(d.Seconds())
	if err != nil {
		m.backendFailures.Inc()
	}
}
