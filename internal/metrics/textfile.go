package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// TextfileBackend collects metrics in a private registry and writes them in
// the Prometheus text format on Flush, for the node_exporter textfile
// collector.
type TextfileBackend struct {
	path string
	reg  *prometheus.Registry

	runs              *prometheus.CounterVec
	runDuration       *prometheus.SummaryVec
	lines             *prometheus.CounterVec
	stations          prometheus.Gauge
	partitionDuration *prometheus.SummaryVec
	partitionBytes    *prometheus.GaugeVec
}

func NewTextfileBackend(path string) (*TextfileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("metrics: textfile path is required")
	}

	b := &TextfileBackend{
		path: path,
		reg:  prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRuns,
			Help: "Aggregation runs by status.",
		}, []string{"status"}),
		runDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       MetricRunDuration,
			Help:       "Wall time of aggregation runs in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"status"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricLines,
			Help: "Input lines by kind (processed, parse_failure).",
		}, []string{"kind"}),
		stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricStations,
			Help: "Distinct stations in the last result.",
		}),
		partitionDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       MetricPartitionDuration,
			Help:       "Scan time per partition in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"partition"}),
		partitionBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricPartitionBytes,
			Help: "Bytes assigned to each partition.",
		}, []string{"partition"}),
	}

	for _, c := range []prometheus.Collector{b.runs, b.runDuration, b.lines, b.stations, b.partitionDuration, b.partitionBytes} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return b, nil
}

func (b *TextfileBackend) IncCounter(name string, delta float64, labels Labels) {
	switch name {
	case MetricRuns:
		b.runs.WithLabelValues(labels["status"]).Add(delta)
	case MetricLines:
		b.lines.WithLabelValues(labels["kind"]).Add(delta)
	}
}

func (b *TextfileBackend) SetGauge(name string, value float64, labels Labels) {
	switch name {
	case MetricStations:
		b.stations.Set(value)
	case MetricPartitionBytes:
		b.partitionBytes.WithLabelValues(labels["partition"]).Set(value)
	}
}

func (b *TextfileBackend) ObserveSummary(name string, value float64, labels Labels) {
	switch name {
	case MetricRunDuration:
		b.runDuration.WithLabelValues(labels["status"]).Observe(value)
	case MetricPartitionDuration:
		b.partitionDuration.WithLabelValues(labels["partition"]).Observe(value)
	}
}

// Flush writes the registry to the configured path.
func (b *TextfileBackend) Flush() error {
	return prometheus.WriteToTextfile(b.path, b.reg)
}

// Gatherer exposes the registry.
func (b *TextfileBackend) Gatherer() prometheus.Gatherer {
	return b.reg
}
