package brc

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"time"
)

const (
	defaultBufferSize = 64 * 1024
	// scanners look at their context once every cancelCheckEvery lines
	cancelCheckEvery = 1024
)

type ScanOptions struct {
	// Strict turns the first malformed line into an error instead of
	// counting it as a failure.
	Strict     bool
	BufferSize int
}

func (o ScanOptions) bufferSize() int {
	if o.BufferSize < 16 {
		return defaultBufferSize
	}
	return o.BufferSize
}

// Partial is the private result of scanning one Range.
type Partial struct {
	Index    int
	Range    Range
	Table    *StationTable
	Lines    uint64
	Failures uint64
	Elapsed  time.Duration
}

type partitionScanner struct {
	ctx    context.Context
	strict bool
	p      *Partial
}

// ScanPartition aggregates every line of r. Lines are read in place when view
// implements ByteViewer and through a buffered section reader otherwise.
func ScanPartition(ctx context.Context, view io.ReaderAt, r Range, opts ScanOptions) (*Partial, error) {
	table, err := NewStationTable(defaultTableBuckets)
	if err != nil {
		return nil, err
	}

	s := &partitionScanner{
		ctx:    ctx,
		strict: opts.Strict,
		p:      &Partial{Range: r, Table: table},
	}

	start := time.Now()
	if bv, ok := view.(ByteViewer); ok {
		err = s.scanBytes(bv.Bytes()[r.Start:r.End], r.Start)
	} else {
		err = s.scanReader(io.NewSectionReader(view, r.Start, r.Len()), r.Start, opts.bufferSize())
	}
	if err != nil {
		return nil, err
	}
	s.p.Elapsed = time.Since(start)

	return s.p, nil
}

func (s *partitionScanner) scanBytes(data []byte, off int64) error {
	for len(data) > 0 {
		var line []byte
		nl := bytes.IndexByte(data, endLine)
		if nl < 0 {
			line, data = data, nil
		} else {
			line, data = data[:nl], data[nl+1:]
		}

		if err := s.line(line, off); err != nil {
			return err
		}
		off += int64(len(line)) + 1
	}
	return nil
}

func (s *partitionScanner) scanReader(input io.Reader, off int64, bufSize int) error {
	br := bufio.NewReaderSize(input, bufSize)

	// lines longer than the buffer are reassembled here
	var long []byte
	for {
		line, readErr := br.ReadSlice(endLine)
		if readErr == bufio.ErrBufferFull {
			long = append(long, line...)
			continue
		}
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		if len(long) > 0 {
			long = append(long, line...)
			line = long
		}

		if n := len(line); n > 0 {
			if line[n-1] == endLine {
				line = line[:n-1]
			}
			if err := s.line(line, off); err != nil {
				return err
			}
			off += int64(n)
		}
		long = long[:0]

		if readErr == io.EOF {
			return nil
		}
	}
}

func (s *partitionScanner) line(line []byte, off int64) error {
	if s.p.Lines%cancelCheckEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}
	s.p.Lines++

	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	name, m, err := ParseLine(line)
	if err != nil {
		if s.strict {
			return &LineError{Offset: off, Line: string(line), Err: err}
		}
		s.p.Failures++
		return nil
	}

	s.p.Table.Upsert(name).NewMeasurement(m)
	return nil
}
