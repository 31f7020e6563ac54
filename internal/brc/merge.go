package brc

import (
	"errors"
	"time"
)

// PartitionStats summarizes the work of one scanner.
type PartitionStats struct {
	Range    Range
	Lines    uint64
	Failures uint64
	Elapsed  time.Duration
}

// Result is the merged summary of a whole input. Every station in it has at
// least one measurement.
type Result struct {
	table      *StationTable
	Lines      uint64
	Failures   uint64
	Partitions []PartitionStats
}

// Merge folds the partial tables in order. Every partial must come from a
// scanner that completed successfully.
func Merge(partials []*Partial) (*Result, error) {
	table, err := NewStationTable(defaultTableBuckets)
	if err != nil {
		return nil, err
	}

	r := &Result{
		table:      table,
		Partitions: make([]PartitionStats, 0, len(partials)),
	}
	for _, p := range partials {
		if p == nil {
			return nil, errors.New("merge: missing partition result")
		}
		r.table.MergeFrom(p.Table)
		r.Lines += p.Lines
		r.Failures += p.Failures
		r.Partitions = append(r.Partitions, PartitionStats{
			Range:    p.Range,
			Lines:    p.Lines,
			Failures: p.Failures,
			Elapsed:  p.Elapsed,
		})
	}
	return r, nil
}

func (r *Result) Len() int {
	return r.table.Len()
}

func (r *Result) Get(name string) (Station, bool) {
	return r.table.Get(name)
}

// Keys returns station names in ascending byte order.
func (r *Result) Keys() []string {
	return r.table.KnownEntries()
}

// Stations returns a copy of the merged stations keyed by name.
func (r *Result) Stations() map[string]Station {
	out := make(map[string]Station, r.table.Len())
	for _, e := range r.table.Entries() {
		out[e.name] = e.station
	}
	return out
}
