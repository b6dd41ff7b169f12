package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const namespace = "nginxstats"

// Collector holds the metrics of a single run. A batch run has no scrape
// endpoint, so the registry is exported to a textfile when it finishes.
type Collector struct {
	// Input metrics
	InputLines *prometheus.CounterVec

	// Parser metrics
	ParserSkipped *prometheus.CounterVec
	ParserRecords *prometheus.CounterVec

	// Report metrics
	ReportEntries prometheus.Gauge

	// Run metrics
	RunDuration      prometheus.Gauge
	RunLastSuccess   prometheus.Gauge
	SystemMemAlloc   prometheus.Gauge
	SystemTotalAlloc prometheus.Gauge

	registry *prometheus.Registry
}

// NewCollector creates a new metrics collector with its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
	}

	c.initInputMetrics()
	c.initParserMetrics()
	c.initReportMetrics()
	c.initRunMetrics()

	return c
}

func (c *Collector) initInputMetrics() {
	c.InputLines = promauto.With(c.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "lines_total",
			Help:      "Total number of lines read from the input log",
		},
		[]string{"input"},
	)
}

func (c *Collector) initParserMetrics() {
	c.ParserSkipped = promauto.With(c.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "lines_skipped_total",
			Help:      "Total number of lines that yielded no client address",
		},
		[]string{"parser"},
	)

	c.ParserRecords = promauto.With(c.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "records_total",
			Help:      "Total number of parsed records by detected operating system",
		},
		[]string{"parser", "os"},
	)
}

func (c *Collector) initReportMetrics() {
	c.ReportEntries = promauto.With(c.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "entries",
			Help:      "Number of distinct (address, os) rows in the last report",
		},
	)
}

func (c *Collector) initRunMetrics() {
	c.RunDuration = promauto.With(c.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Wall time of the last run",
		},
	)

	c.RunLastSuccess = promauto.With(c.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run finished",
		},
	)

	c.SystemMemAlloc = promauto.With(c.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "system",
			Name:      "memory_alloc_bytes",
			Help:      "Heap bytes allocated at the end of the run",
		},
	)

	c.SystemTotalAlloc = promauto.With(c.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "system",
			Name:      "memory_total_alloc_bytes",
			Help:      "Cumulative heap bytes allocated during the run",
		},
	)
}

// ObserveRun records the outcome of a successful run
func (c *Collector) ObserveRun(entries int, elapsed time.Duration) {
	c.ReportEntries.Set(float64(entries))
	c.RunDuration.Set(elapsed.Seconds())
	c.RunLastSuccess.SetToCurrentTime()
	c.collectSystemMetrics()
}

// collectSystemMetrics gathers runtime metrics
func (c *Collector) collectSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.SystemMemAlloc.Set(float64(m.Alloc))
	c.SystemTotalAlloc.Set(float64(m.TotalAlloc))
}

// WriteTextfile writes every metric in the registry to path in the
// Prometheus text format, for the node exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
