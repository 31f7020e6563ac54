// Package gen writes synthetic measurement files in the
// "<station>;<value>\n" format, deterministically for a given seed.
package gen

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
)

type WeatherStation struct {
	Name string
	Mean float64
}

// Stations is the pool names are drawn from. It contains multi-byte names on
// purpose.
var Stations = []WeatherStation{
	{"Abha", 18.0}, {"Abidjan", 26.0}, {"Accra", 26.4}, {"Addis Ababa", 16.0},
	{"Adelaide", 17.3}, {"Albuquerque", 14.0}, {"Alexandria", 20.0}, {"Amsterdam", 10.2},
	{"Anchorage", 2.8}, {"Athens", 19.2}, {"Baghdad", 22.77}, {"Bangkok", 28.6},
	{"Barcelona", 18.2}, {"Beijing", 12.9}, {"Berlin", 10.3}, {"Bogotá", 15.6},
	{"Bulawayo", 18.9}, {"Cairo", 21.4}, {"Cape Town", 16.2}, {"Chicago", 9.8},
	{"Copenhagen", 9.1}, {"Dakar", 24.0}, {"Dublin", 9.8}, {"Hamburg", 9.7},
	{"Helsinki", 5.9}, {"Istanbul", 13.9}, {"Jakarta", 26.7}, {"Kyiv", 8.4},
	{"Lagos", 26.8}, {"Lima", 19.9}, {"Mexico City", 17.5}, {"Montréal", 6.8},
	{"Nairobi", 17.8}, {"Oslo", 5.7}, {"Paris", 12.3}, {"Reykjavík", 4.3},
	{"São Paulo", 19.7}, {"Tokyo", 15.4}, {"Yellowknife", -4.3}, {"Zürich", 9.3},
}

type Options struct {
	Rows int
	// Stations limits how many names of the pool are used. 0 means all.
	Stations int
	Seed     uint64
	// MalformedEvery replaces every n-th row with a malformed line. 0 disables it.
	MalformedEvery int
	// NoTrailingNewline omits the terminator of the last row.
	NoTrailingNewline bool
}

var malformed = []string{
	"no separator here",
	"Paris;",
	"Paris;12.3.4",
	"Paris;nan",
	"Paris;inf",
	"Paris;1e3",
	"",
}

// Write emits opts.Rows lines to w.
func Write(w io.Writer, opts Options) error {
	if opts.Rows < 0 {
		return fmt.Errorf("invalid number of rows: %d", opts.Rows)
	}
	pool := Stations
	if opts.Stations > 0 && opts.Stations < len(pool) {
		pool = pool[:opts.Stations]
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	bw := bufio.NewWriterSize(w, 1024*1024)
	buf := make([]byte, 0, 128)
	for i := range opts.Rows {
		buf = buf[:0]
		if opts.MalformedEvery > 0 && (i+1)%opts.MalformedEvery == 0 {
			buf = append(buf, malformed[rng.IntN(len(malformed))]...)
		} else {
			s := pool[rng.IntN(len(pool))]
			buf = AppendRow(buf, s.Name, Measurement(rng, s.Mean))
		}
		if i < opts.Rows-1 || !opts.NoTrailingNewline {
			buf = append(buf, '\n')
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Measurement draws a value around mean, rounded to one decimal place and
// clamped to [-99.9, 99.9].
func Measurement(rng *rand.Rand, mean float64) float64 {
	m := math.Round((rng.NormFloat64()*10+mean)*10) / 10
	return max(-99.9, min(99.9, m))
}

func AppendRow(dst []byte, name string, m float64) []byte {
	dst = append(dst, name...)
	dst = append(dst, ';')
	return strconv.AppendFloat(dst, m, 'f', 1, 64)
}
