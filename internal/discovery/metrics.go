package discovery

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Node file outcome labels.
const (
	fileOutcomeHostname          = "hostname"
	fileOutcomeFetchError        = "fetch_error"
	fileOutcomeMissingAnnotation = "missing_annotation"
)

// Metrics tracks walk activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	walksStarted      prometheus.Counter
	walksRunning      prometheus.Gauge
	walkDuration      prometheus.Histogram
	directoriesListed prometheus.Counter
	listingFailures   prometheus.Counter
	sitesFound        prometheus.Counter
	nodeFiles         *prometheus.CounterVec
}

// NewMetrics registers the walk collectors against the provided registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		walksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitescout_walks_started_total",
			Help: "Total discovery walks that have started.",
		}),
		walksRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitescout_walks_running",
			Help: "Current number of running discovery walks.",
		}),
		walkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitescout_walk_duration_seconds",
			Help:    "Wall time per completed discovery walk.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		directoriesListed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitescout_directories_listed_total",
			Help: "Directories listed successfully during walks.",
		}),
		listingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitescout_listing_failures_total",
			Help: "Directory listings that failed and aborted their branch.",
		}),
		sitesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitescout_sites_found_total",
			Help: "Site directories discovered.",
		}),
		nodeFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitescout_node_files_total",
			Help: "Node file outcomes partitioned by result.",
		}, []string{"outcome"}),
	}
	for _, collector := range []prometheus.Collector{
		m.walksStarted,
		m.walksRunning,
		m.walkDuration,
		m.directoriesListed,
		m.listingFailures,
		m.sitesFound,
		m.nodeFiles,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register discovery collector: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) walkStarted() {
	if m == nil {
		return
	}
	m.walksStarted.Inc()
	m.walksRunning.Inc()
}

func (m *Metrics) walkFinished(dur time.Duration) {
	if m == nil {
		return
	}
	m.walksRunning.Dec()
	m.walkDuration.Observe(dur.Seconds())
}

func (m *Metrics) directoryListed() {
	if m == nil {
		return
	}
	m.directoriesListed.Inc()
}

func (m *Metrics) listingFailed() {
	if m == nil {
		return
	}
	m.listingFailures.Inc()
}

func (m *Metrics) siteFound() {
	if m == nil {
		return
	}
	m.sitesFound.Inc()
}

func (m *Metrics) fileOutcome(outcome string) {
	if m == nil {
		return
	}
	m.nodeFiles.WithLabelValues(outcome).Inc()
}
