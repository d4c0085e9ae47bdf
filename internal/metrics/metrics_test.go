package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/":                           "/",
		"/api/v1/dashboard":           "/api/v1/dashboard",
		"/api/v1/goal/update/abc-123": "/api/v1/goal/update",
		"/api/v1/income/delete/xyz":   "/api/v1/income/delete",
		"/uploads/6b1e.png":           "/uploads",
		"/healthz":                    "/healthz",
	}
	for in, want := range cases {
		if got := canonicalPath(in); got != want {
			t.Errorf("canonicalPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInstrumentHandlerCountsRequests(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/goal/get", "418"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/goal/get", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/goal/get", "418"))

	if after-before != 1 {
		t.Fatalf("expected one request recorded, got %v", after-before)
	}
}

func TestRecorders(t *testing.T) {
	ObserveDashboard(time.Millisecond, nil)
	ObserveDashboard(time.Millisecond, errors.New("boom"))
	RecordEventPublished("created", true)
	RecordEventMirrored("deleted", false)
	RecordCacheLookup("users", true)

	if got := testutil.ToFloat64(eventsPublished.WithLabelValues("created", "true")); got < 1 {
		t.Fatalf("events published = %v", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "fintrack_dashboard_aggregation_duration_seconds") {
		t.Fatalf("dashboard histogram missing from exposition")
	}
}
