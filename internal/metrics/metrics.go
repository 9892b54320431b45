package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter metrics (monotonically increasing)
var (
	// UploadsTotal counts finished uploads by media kind, upload path and outcome
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeding_uploads_total",
			Help: "Total number of media uploads",
		},
		[]string{"kind", "path", "status"},
	)

	// ChunksReceivedTotal counts individual chunks accepted by the receivers
	ChunksReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeding_chunks_received_total",
			Help: "Total number of upload chunks received",
		},
		[]string{"kind"},
	)

	// SessionRejectionsTotal counts chunk sessions refused at the ceiling
	SessionRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weeding_session_rejections_total",
			Help: "Total number of upload sessions rejected by the concurrency ceiling",
		},
	)

	// StorageErrorsTotal counts blob-store failures by category
	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeding_storage_errors_total",
			Help: "Total number of object storage errors",
		},
		[]string{"category"},
	)

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weeding_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Gauge metrics (current values) are registered in collector.go since they
// read live state from the session registry

// Histogram metrics (distributions)
var (
	// HTTPRequestDuration tracks HTTP request latency by method and path
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weeding_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// AssemblyDuration tracks how long chunk assembly takes
	AssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weeding_assembly_duration_seconds",
			Help:    "Chunk assembly duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// StoragePushDuration tracks blob-store push latency
	StoragePushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weeding_storage_push_duration_seconds",
			Help:    "Object storage push duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// UploadSizeBytes tracks distribution of uploaded file sizes
	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "weeding_upload_size_bytes",
			Help: "Distribution of uploaded file sizes in bytes",
			Buckets: []float64{
				102400,      // 100 KB
				1048576,     // 1 MB
				4194304,     // 4 MB
				10485760,    // 10 MB
				52428800,    // 50 MB
				104857600,   // 100 MB
				314572800,   // 300 MB
				1073741824,  // 1 GB
			},
		},
	)
)
