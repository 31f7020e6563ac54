package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"onebrc/internal/gen"
)

func main() {
	rows := flag.Int("rows", 1_000_000, "number of rows to generate")
	stations := flag.Int("stations", 0, "number of distinct stations, 0 for all")
	seed := flag.Uint64("seed", 1, "random seed")
	malformedEvery := flag.Int("malformed-every", 0, "replace every n-th row with a malformed line")
	outputFile := flag.String("o", "measurements.txt", "output file")
	flag.Parse()

	start := time.Now()
	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatal(err)
	}

	err = gen.Write(f, gen.Options{
		Rows:           *rows,
		Stations:       *stations,
		Seed:           *seed,
		MalformedEvery: *malformedEvery,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("generate %s: %s", *outputFile, err)
	}
	slog.Info("generated", "file", *outputFile, "rows", *rows, "elapsed", time.Since(start))
}
