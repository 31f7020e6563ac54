package brc

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Workers is the number of partitions scanned concurrently.
	// Defaults to runtime.NumCPU().
	Workers int
	Scan    ScanOptions
	Logger  *slog.Logger
}

// PartitionError reports the failure of the scanner that owned Range.
type PartitionError struct {
	Index int
	Range Range
	Err   error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d [%d, %d): %s", e.Index, e.Range.Start, e.Range.End, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}

// Aggregate partitions view, scans every partition on its own goroutine and
// merges the partial tables once all of them are done. If any scanner fails,
// the first failure is returned and no result is produced.
func Aggregate(ctx context.Context, view View, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nworkers := opts.Workers
	if nworkers <= 0 {
		nworkers = runtime.NumCPU()
	}

	ranges, err := Partition(view, int64(view.Len()), nworkers)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}
	logger.Debug("partitions computed", "size", view.Len(), "workers", nworkers, "partitions", len(ranges))

	partials := make([]*Partial, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		g.Go(func() error {
			p, err := ScanPartition(gctx, view, r, opts.Scan)
			if err != nil {
				return &PartitionError{Index: i, Range: r, Err: err}
			}
			p.Index = i
			partials[i] = p
			logger.Debug("partition scanned",
				"index", i,
				"start", r.Start,
				"end", r.End,
				"lines", p.Lines,
				"failures", p.Failures,
				"elapsed", p.Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := Merge(partials)
	if err != nil {
		return nil, err
	}
	logger.Debug("merge done", "stations", result.Len(), "elapsed", time.Since(start))

	return result, nil
}
