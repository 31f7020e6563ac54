package brc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/zeebo/xxh3"
)

type Format string

const (
	FormatBrace Format = "brace"
	FormatTable Format = "table"
)

func (f Format) String() string {
	return string(f)
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

func (f *Format) UnmarshalText(b []byte) error {
	switch v := Format(b); v {
	case FormatBrace, FormatTable:
		*f = v
		return nil
	}
	return fmt.Errorf("unknown format %q, want brace or table", string(b))
}

// appendFloat renders the shortest decimal that round-trips, keeping at least
// one fractional digit: 10 -> "10.0", 15.25 -> "15.25".
func appendFloat(dst []byte, f float64) []byte {
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', -1, 64)
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, ".0"...)
	}
	return dst
}

func formatFloat(f float64) string {
	return string(appendFloat(nil, f))
}

// AppendStation renders s as min/max/mean.
func AppendStation(dst []byte, s Station) []byte {
	dst = appendFloat(dst, s.Min)
	dst = append(dst, '/')
	dst = appendFloat(dst, s.Max)
	dst = append(dst, '/')
	return appendFloat(dst, s.Mean())
}

// String renders r as {k1=min/max/mean, k2=min/max/mean, ...} sorted by key.
func (r *Result) String() string {
	var sb strings.Builder
	_ = r.writeBrace(&sb)
	return sb.String()
}

// Digest is a fingerprint of the rendered report, comparable across runs
// with different worker counts.
func (r *Result) Digest() uint64 {
	return xxh3.HashString(r.String())
}

// Write renders r to w in the requested format.
func (r *Result) Write(w io.Writer, f Format) error {
	switch f {
	case FormatBrace, "":
		bw := bufio.NewWriter(w)
		if err := r.writeBrace(bw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		return bw.Flush()
	case FormatTable:
		return r.writeTable(w)
	}
	return fmt.Errorf("unknown format %q", f)
}

func (r *Result) writeBrace(w io.Writer) error {
	buf := make([]byte, 0, 128)
	buf = append(buf, '{')
	first := true
	for _, k := range r.Keys() {
		s, _ := r.table.Get(k)
		if s.Empty() {
			continue
		}
		if !first {
			buf = append(buf, ", "...)
		}
		first = false
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = AppendStation(buf, s)
		if len(buf) >= 4096 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	buf = append(buf, '}')
	_, err := w.Write(buf)
	return err
}

func (r *Result) writeTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"station", "min", "max", "mean", "count"})
	table.SetAutoFormatHeaders(false)
	for _, k := range r.Keys() {
		s, _ := r.table.Get(k)
		if s.Empty() {
			continue
		}
		table.Append([]string{
			k,
			formatFloat(s.Min),
			formatFloat(s.Max),
			formatFloat(s.Mean()),
			strconv.FormatUint(s.N, 10),
		})
	}
	table.Render()
	return nil
}
