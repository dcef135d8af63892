package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/taskmesh/taskmesh/internal/metrics"
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

	for _, k := range sortedKeys(snap.ProxyRequests) {
		route, status, _ := strings.Cut(k, "|")
		writeMetric(w, "taskmesh_proxy_requests_total{route=%q,status=%q} %d\n", route, status, snap.ProxyRequests[k])
	}
	for _, k := range sortedKeys(snap.ProxyErrors) {
		writeMetric(w, "taskmesh_proxy_errors_total{route=%q} %d\n", k, snap.ProxyErrors[k])
	}
	for _, k := range sortedKeys(snap.ProxyDurations) {
		d := snap.ProxyDurations[k]
		writeMetric(w, "taskmesh_proxy_duration_seconds_count{route=%q} %d\n", k, d.Count)
		writeMetric(w, "taskmesh_proxy_duration_seconds_sum{route=%q} %.6f\n", k, float64(d.TotalNs)/1e9)
	}

	for _, k := range sortedKeys(snap.ResetOutcomes) {
		svc, status, _ := strings.Cut(k, "|")
		writeMetric(w, "taskmesh_reset_outcomes_total{service=%q,status=%q} %d\n", svc, status, snap.ResetOutcomes[k])
	}
	writeMetric(w, "taskmesh_reset_duration_seconds_count %d\n", snap.ResetDuration.Count)
	writeMetric(w, "taskmesh_reset_duration_seconds_sum %.6f\n", float64(snap.ResetDuration.TotalNs)/1e9)

	writeMetric(w, "taskmesh_rate_limited_total %d\n", snap.RateLimited)

	writeCounterVec(w, "taskmesh_records_created_total", snap.RecordsCreated)
	writeCounterVec(w, "taskmesh_records_updated_total", snap.RecordsUpdated)
	writeCounterVec(w, "taskmesh_records_deleted_total", snap.RecordsDeleted)
	writeCounterVec(w, "taskmesh_stores_cleared_total", snap.StoresCleared)
}

func writeCounterVec(w http.ResponseWriter, name string, counters map[string]uint64) {
	for _, k := range sortedKeys(counters) {
		writeMetric(w, "%s{resource=%q} %d\n", name, k, counters[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
