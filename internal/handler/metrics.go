package handler

import (
	"fmt"
	"net/http"

	"github.com/serkuksov/NotesAPI/internal/metrics"
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

	writeMetric(w, "notesapi_notes_created_total %d\n", snap.NotesCreated)
	writeMetric(w, "notesapi_notes_updated_total %d\n", snap.NotesUpdated)
	writeMetric(w, "notesapi_notes_deleted_total %d\n", snap.NotesDeleted)
	writeMetric(w, "notesapi_notes_listed_total %d\n", snap.NotesListed)

	writeMetric(w, "notesapi_list_duration_seconds_count %d\n", snap.ListDurationCount)
	writeMetric(w, "notesapi_list_duration_seconds_sum %.6f\n", float64(snap.ListDurationTotalNs)/1e9)

	writeMetric(w, "notesapi_mutations_denied_total %d\n", snap.MutationsDenied)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
