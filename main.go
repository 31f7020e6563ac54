package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"onebrc/internal/brc"
	"onebrc/internal/metrics"
)

const defaultInputFile = "measurements.txt"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("onebrc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: onebrc [flags] [file]\n\nfile defaults to %s\n\n", defaultInputFile)
		fs.PrintDefaults()
	}

	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to file")
	nworkers := fs.Int("n", runtime.NumCPU(), "number of workers")
	bufSize := fs.Int("bufsize", 64*1024, "read buffer size for views that are not memory backed")
	strict := fs.Bool("strict", false, "fail on the first malformed line instead of skipping it")
	expectedFile := fs.String("expected", "", "compare the result with the content of this file")
	metricsFile := fs.String("metrics-file", "", "write prometheus metrics to this file")
	var view brc.ViewKind
	fs.TextVar(&view, "view", brc.ViewMmap, "file access: mmap, madvise or file")
	var format brc.Format
	fs.TextVar(&format, "format", brc.FormatBrace, "output format: brace or table")
	var loglevel slog.Level
	fs.TextVar(&loglevel, "loglevel", slog.LevelInfo, "loglevel")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	inputFile := defaultInputFile
	if fs.NArg() == 1 {
		inputFile = fs.Arg(0)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: loglevel,
	}))

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Error("cpu profile", "err", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("cpu profile", "err", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	recorder := metrics.NewRecorder(nil)
	if *metricsFile != "" {
		b, err := metrics.NewTextfileBackend(*metricsFile)
		if err != nil {
			logger.Error("metrics", "err", err)
			return 1
		}
		recorder = metrics.NewRecorder(b)
	}

	start := time.Now()
	res, err := aggregateFile(inputFile, view, brc.Options{
		Workers: *nworkers,
		Scan: brc.ScanOptions{
			Strict:     *strict,
			BufferSize: *bufSize,
		},
		Logger: logger,
	})
	elapsed := time.Since(start)
	recorder.RecordRun(res, err, elapsed)
	if ferr := recorder.Flush(); ferr != nil {
		logger.Error("metrics flush failed", "file", *metricsFile, "err", ferr)
	}
	if err != nil {
		logger.Error("aggregation failed", "file", inputFile, "err", err)
		return 1
	}

	if res.Failures > 0 {
		logger.Warn("skipped malformed lines", "file", inputFile, "count", res.Failures)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("all done",
			"lines", res.Lines,
			"stations", res.Len(),
			"partitions", len(res.Partitions),
			"digest", fmt.Sprintf("%016x", res.Digest()),
			"elapsed", elapsed)
	}

	if err := res.Write(stdout, format); err != nil {
		logger.Error("write result", "err", err)
		return 1
	}

	if *expectedFile != "" {
		expected, err := os.ReadFile(*expectedFile)
		if err != nil {
			logger.Error("read expected output", "err", err)
			return 1
		}
		if err := brc.Verify(string(expected), res); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		logger.Info("result matches expected output", "file", *expectedFile)
	}

	return 0
}

func aggregateFile(inputFile string, kind brc.ViewKind, opts brc.Options) (*brc.Result, error) {
	view, err := brc.OpenView(inputFile, kind)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", inputFile, err)
	}
	defer view.Close()

	return brc.Aggregate(context.Background(), view, opts)
}
