package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the Prometheus instruments used by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LiveSessions  prometheus.Gauge
	SessionEvents *prometheus.CounterVec
	ChatRequests  *prometheus.CounterVec
	AILatency     *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the instruments on reg. Pass prometheus.NewRegistry() in tests.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Number of conversation sessions held in memory.",
		}),
		SessionEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session lifecycle events by type.",
		}, []string{"event"}),
		ChatRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome.",
		}, []string{"outcome"}),
		AILatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_call_duration_seconds",
			Help:      "Latency of AI provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"outcome"}),
		gatherer: reg,
	}
}

func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues("created").Inc()
	m.LiveSessions.Inc()
}

func (m *Metrics) SessionEvicted() {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues("evicted").Inc()
	m.LiveSessions.Dec()
}

func (m *Metrics) ChatRequest(outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAICall(d time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.AILatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
