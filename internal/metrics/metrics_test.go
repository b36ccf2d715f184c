package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/keithlinneman/assetserve/internal/version"
)

func findMetric(t *testing.T, fams []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, mf := range fams {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range mf.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && lp.GetValue() != want {
				match = false
				break
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func TestAssetCounters(t *testing.T) {
	m := New()

	m.IncAssetServed("br")
	m.IncAssetServed("br")
	m.IncAssetServed("identity")
	m.IncAssetDeclined("miss")
	m.IncAssetError()

	fams, err := m.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	served := findMetric(t, fams, "assets_served_total")
	if served == nil {
		t.Fatal("assets_served_total not registered")
	}
	if got := counterValue(served, map[string]string{"encoding": "br"}); got != 2 {
		t.Errorf("served{br} = %v, want 2", got)
	}
	if got := counterValue(served, map[string]string{"encoding": "identity"}); got != 1 {
		t.Errorf("served{identity} = %v, want 1", got)
	}

	declined := findMetric(t, fams, "assets_declined_total")
	if declined == nil {
		t.Fatal("assets_declined_total not registered")
	}
	if got := counterValue(declined, map[string]string{"reason": "miss"}); got != 1 {
		t.Errorf("declined{miss} = %v, want 1", got)
	}

	errs := findMetric(t, fams, "assets_errors_total")
	if errs == nil {
		t.Fatal("assets_errors_total not registered")
	}
	if got := errs.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestBuildInfoGauge(t *testing.T) {
	m := New()
	dirty := false
	m.SetBuildInfoFromVersion("assetserve", "server", &version.Info{
		Version:   "1.0.0",
		Commit:    "abc123",
		GoVersion: "go1.24",
		VCSDirty:  &dirty,
	})

	fams, err := m.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	bi := findMetric(t, fams, "build_info")
	if bi == nil {
		t.Fatal("build_info not registered")
	}
	metric := bi.GetMetric()[0]
	if metric.GetGauge().GetValue() != 1 {
		t.Errorf("build_info value = %v, want 1", metric.GetGauge().GetValue())
	}
	labels := map[string]string{}
	for _, lp := range metric.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	if labels["version"] != "1.0.0" || labels["vcs_dirty"] != "false" {
		t.Errorf("labels = %v", labels)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing.css", nil))

	fams, err := m.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	reqs := findMetric(t, fams, "http_requests_total")
	if reqs == nil {
		t.Fatal("http_requests_total not registered")
	}
	got := counterValue(reqs, map[string]string{
		"method": http.MethodGet,
		"route":  "/{asset}",
		"status": "404",
	})
	if got != 1 {
		t.Errorf("requests{GET,/{asset},404} = %v, want 1", got)
	}
}

func TestMiddlewareCountsServerErrors(t *testing.T) {
	m := New()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	fams, _ := m.reg.Gather()
	errsFam := findMetric(t, fams, "http_errors_total")
	if errsFam == nil {
		t.Fatal("http_errors_total not registered")
	}
	if got := counterValue(errsFam, map[string]string{"method": "GET"}); got != 1 {
		t.Errorf("errors{GET} = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.IncAssetServed("gzip")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "assets_served_total") {
		t.Error("scrape output missing assets_served_total")
	}
}
