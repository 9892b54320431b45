package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SessionCollector reports live session-registry state on each scrape
type SessionCollector struct {
	count func() int

	openSessions *prometheus.Desc
}

// NewSessionCollector creates a collector sourcing the open-session count
// from the registry
func NewSessionCollector(count func() int) *SessionCollector {
	return &SessionCollector{
		count: count,
		openSessions: prometheus.NewDesc(
			"weeding_open_upload_sessions",
			"Number of currently open chunked upload sessions",
			nil, nil,
		),
	}
}

// Describe sends metric descriptors to Prometheus
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openSessions
}

// Collect reads the registry and emits the gauge
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.openSessions,
		prometheus.GaugeValue,
		float64(c.count()),
	)
}

// Register attaches the collector to the default registry. Call once at
// startup.
func (c *SessionCollector) Register() error {
	return prometheus.Register(c)
}
