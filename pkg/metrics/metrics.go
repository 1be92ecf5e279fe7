package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

// Metrics groups the Prometheus instruments of the support pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Requests       *prometheus.CounterVec
	RequestLatency prometheus.Histogram
	ModelCalls     *prometheus.CounterVec
	ModelLatency   *prometheus.HistogramVec
	ActiveSessions prometheus.Gauge
}

func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Answered support requests by classified intent and urgency.",
		}, []string{"intent", "urgency"}),
		RequestLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_ms",
			Help:      "End-to-end latency of one ask in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000, 60000},
		}),
		ModelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Language-model calls by agent and outcome.",
		}, []string{"agent", "outcome"}),
		ModelLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_latency_ms",
			Help:      "Language-model call latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000, 30000},
		}, []string{"agent"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of open conversation sessions.",
		}),
	}
}

func (m *Metrics) ObserveRequest(intent, urgency string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(intent, urgency).Inc()
}

func (m *Metrics) ObserveRequestLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.Observe(float64(d.Milliseconds()))
}

func (m *Metrics) ObserveModelCall(agent string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFallback
	}
	m.ModelCalls.WithLabelValues(agent, outcome).Inc()
	m.ModelLatency.WithLabelValues(agent).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
