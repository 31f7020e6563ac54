package brc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 16 * 1024 * 1024

// Baseline aggregates input on the calling goroutine with a plain
// bufio.Scanner and a builtin map. It applies the same parse rules as
// Aggregate and serves as its reference.
func Baseline(input io.Reader) (*Result, error) {
	stations := make(map[string]*Station)
	var lines, failures uint64

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines++
		name, value, found := strings.Cut(scanner.Text(), ";")
		if !found {
			failures++
			continue
		}
		m, err := ParseValue([]byte(value))
		if err != nil {
			failures++
			continue
		}

		station, ok := stations[name]
		if !ok {
			s := NewStation()
			station = &s
			stations[name] = station
		}
		station.NewMeasurement(m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	table, err := NewStationTable(defaultTableBuckets)
	if err != nil {
		return nil, err
	}
	for name, s := range stations {
		*table.upsertString(name) = *s
	}

	return &Result{
		table:    table,
		Lines:    lines,
		Failures: failures,
	}, nil
}
