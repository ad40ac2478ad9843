package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/orgcatalog/orgcatalog/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "orgcatalog_org_cache_hits_total %d\n", snap.OrgCacheHits)
	writeMetric(w, "orgcatalog_org_cache_misses_total %d\n", snap.OrgCacheMisses)
	writeMetric(w, "orgcatalog_org_lookup_duration_seconds_count %d\n", snap.LookupDurationCount)
	writeMetric(w, "orgcatalog_org_lookup_duration_seconds_sum %.6f\n", float64(snap.LookupDurationTotalNs)/1e9)

	writeMetric(w, "orgcatalog_buildings_created_total %d\n", snap.BuildingsCreated)
	writeMetric(w, "orgcatalog_activities_created_total %d\n", snap.ActivitiesCreated)
	writeMetric(w, "orgcatalog_organizations_created_total %d\n", snap.OrganizationsCreated)
	writeMetric(w, "orgcatalog_organizations_updated_total %d\n", snap.OrganizationsUpdated)
	writeMetric(w, "orgcatalog_organizations_deleted_total %d\n", snap.OrganizationsDeleted)

	// Sorted for a stable exposition
	kinds := make([]string, 0, len(snap.SearchesByKind))
	for kind := range snap.SearchesByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		writeMetric(w, "orgcatalog_searches_total{kind=%q} %d\n", kind, snap.SearchesByKind[kind])
	}

	writeMetric(w, "orgcatalog_search_duration_seconds_count %d\n", snap.SearchDurationCount)
	writeMetric(w, "orgcatalog_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
