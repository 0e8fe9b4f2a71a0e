package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTransition(t *testing.T) {
	m := New()
	m.ObserveTransition("accepted")
	m.ObserveTransition("accepted")
	m.ObserveTransition("prerequisites_not_met")

	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("accepted")); got != 2 {
		t.Errorf("accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("prerequisites_not_met")); got != 1 {
		t.Errorf("prerequisites_not_met = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveReport(time.Millisecond)
	m.ObserveTransition("accepted")
	m.ObserveGraphLoad(false)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveReport(time.Millisecond)
	m.ObserveGraphLoad(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{"syllabus_eligibility_reports_total 1", "syllabus_eligibility_report_duration_seconds_count 1", `syllabus_graph_loads_total{result="ok"} 1`} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
