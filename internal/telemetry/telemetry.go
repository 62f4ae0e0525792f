// Package telemetry records export run metrics in a Prometheus registry and
// writes them to a node-exporter textfile when a run ends.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dwcexport"

// Metrics holds the collectors of one export run.
type Metrics struct {
	registry *prometheus.Registry

	RowsStaged       *prometheus.CounterVec
	RecordsReceived  *prometheus.CounterVec
	RecordsFiltered  *prometheus.CounterVec
	BatchesFailed    *prometheus.CounterVec
	Archives         *prometheus.CounterVec
	AssemblyDuration *prometheus.HistogramVec
	RunDuration      prometheus.Gauge
	LastRun          prometheus.Gauge
}

// Archive outcomes used as the "outcome" label.
const (
	OutcomeDelivered = "delivered"
	OutcomeUnchanged = "unchanged"
	OutcomeLowVolume = "low_volume"
	OutcomeMissing   = "missing_source"
	OutcomeNoInput   = "no_input"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.RowsStaged = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_staged_total",
		Help:      "Data rows written to staging files, by table",
	}, []string{"table"})
	m.RecordsReceived = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_received_total",
		Help:      "Observation records read from the source, by provider",
	}, []string{"provider"})
	m.RecordsFiltered = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_filtered_total",
		Help:      "Records dropped before staging (restricted or without event), by provider",
	}, []string{"provider"})
	m.BatchesFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_failed_total",
		Help:      "Batches rolled back after a write or read failure, by provider",
	}, []string{"provider"})
	m.Archives = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archives_total",
		Help:      "Archive outcomes per run",
	}, []string{"outcome"})
	m.AssemblyDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assembly_duration_seconds",
		Help:      "Time to assemble one archive",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"variant"})
	m.RunDuration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last export run",
	})
	m.LastRun = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last export run finished",
	})
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveAssembly records how long one archive took to assemble.
func (m *Metrics) ObserveAssembly(variant string, d time.Duration) {
	m.AssemblyDuration.WithLabelValues(variant).Observe(d.Seconds())
}

// Finish stamps the run duration and completion time.
func (m *Metrics) Finish(started, finished time.Time) {
	m.RunDuration.Set(finished.Sub(started).Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
