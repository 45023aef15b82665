package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveRequest("/lots/{lotID}/path", http.MethodGet, http.StatusOK, 12*time.Millisecond)
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveView("ready")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`lottrace_http_requests_total{method="GET",route="/lots/{lotID}/path",status="200"} 1`,
		`lottrace_trace_cache_lookups_total{result="miss"} 2`,
		`lottrace_path_views_total{state="ready"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in exposition:\n%s", want, out)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
	m.CacheHit()
	m.CacheMiss()
	m.ObserveView("failed")
}

func TestMetrics_RegistryGather(t *testing.T) {
	m := New()
	m.ObserveRequest("/lots/{lotID}/qr", http.MethodGet, http.StatusInternalServerError, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "lottrace_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == "500" && metric.GetCounter().GetValue() == 1 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("expected one 500 request in gathered families")
	}
}
