package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/agents/coordinator"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	memoryx "github.com/tanpawarit/Chative-Support-Assistant/agent/memory"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/session"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, string) contractx.Classification {
	return contractx.Classification{Intent: contractx.IntentRefund, Urgency: contractx.UrgencyHigh}
}

type stubReplier struct{}

func (stubReplier) CreateReply(_ context.Context, req contractx.ReplyRequest) string {
	return "We will look into your refund."
}

type stubRegistry struct{}

func (stubRegistry) Classifier() contractx.Classifier { return stubClassifier{} }
func (stubRegistry) Replier() contractx.Replier       { return stubReplier{} }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metricsx.New("test_httpapi", reg)
	factory := func() (*coordinator.Coordinator, error) {
		return coordinator.New(stubRegistry{}, memoryx.New(), coordinator.WithMetrics(m))
	}
	mgr := session.NewManager(factory, time.Minute, session.WithMetrics(m))

	ts := httptest.NewServer(New(mgr, reg).Router())
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	res, err := http.Post(ts.URL+"/v1/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session request error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var created map[string]any
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id, _ := created["session_id"].(string)
	if id == "" {
		t.Fatalf("missing session_id in create response: %+v", created)
	}
	return id
}

func postMessage(t *testing.T, ts *httptest.Server, id, body string) *http.Response {
	t.Helper()

	res, err := http.Post(ts.URL+"/v1/sessions/"+id+"/messages", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post message request error = %v", err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decodeError(t *testing.T, res *http.Response) errorResponse {
	t.Helper()

	var out errorResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return out
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createSession(t, ts)

	body, _ := json.Marshal(map[string]string{"message": "I'd like a refund for my order."})
	res := postMessage(t, ts, id, string(body))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("ask status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var got contractx.Response
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode ask response: %v", err)
	}
	want := contractx.Response{
		Intent:  contractx.IntentRefund,
		Urgency: contractx.UrgencyHigh,
		Reply:   "We will look into your refund.",
	}
	if got != want {
		t.Fatalf("ask response = %#v, want %#v", got, want)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/sessions/"+id, nil)
	delRes, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request error = %v", err)
	}
	defer delRes.Body.Close()
	if delRes.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", delRes.StatusCode, http.StatusNoContent)
	}

	res = postMessage(t, ts, id, string(body))
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("ask after delete status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
}

func TestAskResponseUsesWireFieldNames(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createSession(t, ts)

	res := postMessage(t, ts, id, `{"message":"hello"}`)
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decode body %s: %v", raw, err)
	}
	for _, key := range []string{"intent", "urgency", "reply"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("response %s missing %q", raw, key)
		}
	}
	if len(fields) != 3 {
		t.Fatalf("response %s has unexpected fields", raw)
	}
}

func TestAskRejectsBadInput(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createSession(t, ts)

	cases := []struct {
		name string
		body string
		code string
	}{
		{name: "empty body", body: "", code: "invalid_request"},
		{name: "malformed json", body: "{", code: "invalid_request"},
		{name: "unknown field", body: `{"text":"hi"}`, code: "invalid_request"},
		{name: "empty message", body: `{"message":""}`, code: "invalid_message"},
		{name: "missing message", body: `{}`, code: "invalid_message"},
	}

	for _, tc := range cases {
		res := postMessage(t, ts, id, tc.body)
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", tc.name, res.StatusCode, http.StatusBadRequest)
		}
		if got := decodeError(t, res); got.Code != tc.code {
			t.Fatalf("%s: code = %q, want %q", tc.name, got.Code, tc.code)
		}
	}
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	res := postMessage(t, ts, "missing", `{"message":"hi"}`)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
	if got := decodeError(t, res); got.Code != "session_not_found" {
		t.Fatalf("code = %q", got.Code)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/sessions/missing", nil)
	delRes, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete request error = %v", err)
	}
	defer delRes.Body.Close()
	if delRes.StatusCode != http.StatusNotFound {
		t.Fatalf("delete status = %d, want %d", delRes.StatusCode, http.StatusNotFound)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createSession(t, ts)
	postMessage(t, ts, id, `{"message":"refund please"}`)

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", res.StatusCode)
	}

	metricsRes, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer metricsRes.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(metricsRes.Body); err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		`test_httpapi_requests_total{intent="refund",urgency="high"} 1`,
		"test_httpapi_active_sessions 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestAskAcceptsWhitespaceMessage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createSession(t, ts)

	res := postMessage(t, ts, id, `{"message":"   "}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
}
