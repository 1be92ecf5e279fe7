package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveModelCallOutcomes(t *testing.T) {
	t.Parallel()

	m := New("test", prometheus.NewRegistry())
	m.ObserveModelCall("classifier", 10*time.Millisecond, nil)
	m.ObserveModelCall("classifier", 10*time.Millisecond, errors.New("boom"))
	m.ObserveModelCall("classifier", 10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.ModelCalls.WithLabelValues("classifier", OutcomeOK)); got != 1 {
		t.Fatalf("ok calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ModelCalls.WithLabelValues("classifier", OutcomeFallback)); got != 2 {
		t.Fatalf("fallback calls = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRequest("billing", "low")
	m.ObserveModelCall("reply", time.Second, nil)
	m.ObserveRequestLatency(time.Second)
	m.SetActiveSessions(3)
}

func TestHandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New("chative", reg)
	m.ObserveRequest("refund", "high")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `chative_requests_total{intent="refund",urgency="high"} 1`) {
		t.Fatalf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}

func TestObserveRequestLatency(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New("test", reg)
	m.ObserveRequestLatency(250 * time.Millisecond)
	m.ObserveRequestLatency(750 * time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "test_request_latency_ms" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 2 || h.GetSampleSum() != 1000 {
			t.Fatalf("latency histogram count=%d sum=%v, want 2 and 1000", h.GetSampleCount(), h.GetSampleSum())
		}
		return
	}
	t.Fatal("request latency histogram not registered")
}
