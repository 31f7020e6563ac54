// Package metrics records run-level measurements of an aggregation.
//
// The engine does not depend on it: the CLI hands it the finished Result.
// The default backend discards everything; a Prometheus backend can be
// installed to export counters to a node_exporter textfile.
package metrics

import (
	"strconv"
	"time"

	"onebrc/internal/brc"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	SetGauge(name string, value float64, labels Labels)
	ObserveSummary(name string, value float64, labels Labels)
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)     {}
func (nopBackend) SetGauge(string, float64, Labels)       {}
func (nopBackend) ObserveSummary(string, float64, Labels) {}
func (nopBackend) Flush() error                           { return nil }

// Recorder translates aggregation results into backend calls.
type Recorder struct {
	backend Backend
}

// NewRecorder wraps b. A nil backend discards everything.
func NewRecorder(b Backend) *Recorder {
	if b == nil {
		b = nopBackend{}
	}
	return &Recorder{backend: b}
}

// RecordRun records a completed run. status is "success" when err is nil.
func (r *Recorder) RecordRun(res *brc.Result, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.backend.IncCounter(MetricRuns, 1, Labels{"status": status})
	r.backend.ObserveSummary(MetricRunDuration, d.Seconds(), Labels{"status": status})
	if res == nil {
		return
	}

	r.backend.IncCounter(MetricLines, float64(res.Lines-res.Failures), Labels{"kind": "processed"})
	r.backend.IncCounter(MetricLines, float64(res.Failures), Labels{"kind": "parse_failure"})
	r.backend.SetGauge(MetricStations, float64(res.Len()), nil)
	for i, p := range res.Partitions {
		lbls := Labels{"partition": strconv.Itoa(i)}
		r.backend.ObserveSummary(MetricPartitionDuration, p.Elapsed.Seconds(), lbls)
		r.backend.SetGauge(MetricPartitionBytes, float64(p.Range.Len()), lbls)
	}
}

func (r *Recorder) Flush() error {
	return r.backend.Flush()
}

const (
	MetricRuns              = "brc_runs_total"
	MetricRunDuration       = "brc_run_duration_seconds"
	MetricLines             = "brc_lines_total"
	MetricStations          = "brc_stations"
	MetricPartitionDuration = "brc_partition_duration_seconds"
	MetricPartitionBytes    = "brc_partition_bytes"
)
