package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orgcatalog/orgcatalog/internal/metrics"
)

func TestMetrics_Exposition(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncOrgCacheHit()
	rec.IncSearch("radius")
	rec.IncSearch("building")
	rec.ObserveSearchDuration(10 * time.Millisecond)

	h := NewMetricsHandler(rec)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %s, want text/plain", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"orgcatalog_org_cache_hits_total 1",
		`orgcatalog_searches_total{kind="building"} 1`,
		`orgcatalog_searches_total{kind="radius"} 1`,
		"orgcatalog_search_duration_seconds_count 1",
		"orgcatalog_search_duration_seconds_sum 0.010000",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}

	// Kinds must come out in sorted order for a stable scrape.
	if strings.Index(body, `kind="building"`) > strings.Index(body, `kind="radius"`) {
		t.Error("search kinds should be sorted")
	}
}

func TestMetrics_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
