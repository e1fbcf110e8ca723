// Package metrics provides Prometheus metrics for the annotation engine
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the annotation engine
type Metrics struct {
	// Capture metrics
	StrokesCommittedTotal prometheus.Counter
	StrokesDiscardedTotal prometheus.Counter
	PointsCapturedTotal   prometheus.Counter
	PointsSimplifiedAway  prometheus.Counter
	ErasureStepsTotal     prometheus.Counter

	// Render metrics
	RedrawsTotal          prometheus.Counter
	RedrawsCoalescedTotal prometheus.Counter
	RedrawDuration        prometheus.Histogram

	// Persistence metrics
	StoreOperationsTotal  *prometheus.CounterVec
	StoreSizeKB           prometheus.Gauge
	StoredDocumentsTotal  prometheus.Gauge
	StoredPagesTotal      prometheus.Gauge
	DocumentsCleanedTotal prometheus.Counter
	QuotaRetriesTotal     prometheus.Counter

	// Server metrics
	ServerStartTime time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.StrokesCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_strokes_committed_total",
			Help: "Total number of strokes committed to a page",
		},
	)

	m.StrokesDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_strokes_discarded_total",
			Help: "Strokes discarded for having fewer than two points",
		},
	)

	m.PointsCapturedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_points_captured_total",
			Help: "Pointer positions captured into stroke buffers",
		},
	)

	m.PointsSimplifiedAway = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_points_simplified_away_total",
			Help: "Points removed by line simplification at commit time",
		},
	)

	m.ErasureStepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_erasure_steps_total",
			Help: "Eraser hit tests applied to the active page",
		},
	)

	m.RedrawsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_redraws_total",
			Help: "Full-canvas repaints executed",
		},
	)

	m.RedrawsCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_redraws_coalesced_total",
			Help: "Redraw requests merged into an already-scheduled frame",
		},
	)

	m.RedrawDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inkstore_redraw_duration_seconds",
			Help:    "Duration of full-canvas repaints in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkstore_store_operations_total",
			Help: "Persistence operations by type and status",
		},
		[]string{"operation", "status"},
	)

	m.StoreSizeKB = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkstore_store_size_kb",
			Help: "Estimated persisted annotation size in kilobytes",
		},
	)

	m.StoredDocumentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkstore_stored_documents_total",
			Help: "Documents with at least one persisted annotation page",
		},
	)

	m.StoredPagesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inkstore_stored_pages_total",
			Help: "Persisted annotation pages across all documents",
		},
	)

	m.DocumentsCleanedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_documents_cleaned_total",
			Help: "Documents removed by age-based cleanup",
		},
	)

	m.QuotaRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkstore_quota_retries_total",
			Help: "Save retries after a quota-exceeded cleanup round",
		},
	)

	return m
}

// RecordStoreOperation increments the persistence operation counter
func (m *Metrics) RecordStoreOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

// UpdateStorageStats refreshes the storage gauges
func (m *Metrics) UpdateStorageStats(documents, pages int, sizeKB float64) {
	m.StoredDocumentsTotal.Set(float64(documents))
	m.StoredPagesTotal.Set(float64(pages))
	m.StoreSizeKB.Set(sizeKB)
}

// ObserveRedraw records one full repaint
func (m *Metrics) ObserveRedraw(d time.Duration) {
	m.RedrawsTotal.Inc()
	m.RedrawDuration.Observe(d.Seconds())
}
