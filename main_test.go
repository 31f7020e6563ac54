package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"onebrc/internal/gen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	path := writeFile(t, "measurements.txt", "Paris;10.0\nParis;20.0\nHamburg;5.5\n")

	for _, view := range []string{"mmap", "madvise", "file"} {
		for _, n := range []int{1, 3} {
			t.Run(view+"-"+strconv.Itoa(n), func(t *testing.T) {
				if view == "madvise" && runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
					t.Skip("madvise view not supported")
				}
				var stdout, stderr bytes.Buffer
				code := run([]string{"-view", view, "-n", strconv.Itoa(n), path}, &stdout, &stderr)
				require.Equal(t, 0, code, stderr.String())
				assert.Equal(t, "{Hamburg=5.5/5.5/5.5, Paris=10.0/20.0/15.0}\n", stdout.String())
				assert.Empty(t, stderr.String())
			})
		}
	}
}

func TestRunDefaultPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultInputFile), []byte("A;1.0\nB;2.0\nA;3.0"), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "{A=1.0/3.0/2.0, B=2.0/2.0/2.0}\n", stdout.String())
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "nope.txt")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "aggregation failed")
}

func TestRunMalformed(t *testing.T) {
	path := writeFile(t, "m.txt", "A;1.0\nbroken\nA;3.0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Equal(t, "{A=1.0/3.0/2.0}\n", stdout.String())
	assert.Contains(t, stderr.String(), "skipped malformed lines")

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"-strict", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "separator not found")
}

func TestRunExpected(t *testing.T) {
	path := writeFile(t, "m.txt", "A;1.0\nB;2.0\nA;3.0\n")
	good := writeFile(t, "good.out", "{A=1.0/3.0/2.0, B=2.0/2.0/2.0}\n")
	bad := writeFile(t, "bad.out", "{A=1.0/3.0/2.0, B=2.0/2.0/2.5}\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-expected", good, path}, &stdout, &stderr), stderr.String())

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-expected", bad, path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "B=2.0/2.0/2.5")
}

func TestRunTableAndMetrics(t *testing.T) {
	path := writeFile(t, "m.txt", "A;1.0\nB;2.0\nA;3.0\n")
	metricsFile := filepath.Join(t.TempDir(), "brc.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-format", "table", "-metrics-file", metricsFile, path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "station")
	assert.Less(t, strings.Index(stdout.String(), "A"), strings.Index(stdout.String(), "B"))

	out, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), `brc_lines_total{kind="processed"} 3`)
}

func TestRunDebugLog(t *testing.T) {
	path := writeFile(t, "m.txt", "A;1.0\nB;2.0\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{path}, &stdout, &stderr))
	assert.NotContains(t, stderr.String(), "digest=")

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-loglevel", "debug", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "all done")
	assert.Contains(t, stderr.String(), "digest=")
}

func TestRunUsage(t *testing.T) {
	tcs := []struct {
		name string
		args []string
		code int
	}{
		{"help", []string{"-h"}, 0},
		{"unknown flag", []string{"-nope"}, 2},
		{"bad view", []string{"-view", "tape"}, 2},
		{"bad format", []string{"-format", "xml"}, 2},
		{"too many files", []string{"a", "b"}, 2},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tc.code, run(tc.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func BenchmarkRun(b *testing.B) {
	var buf bytes.Buffer
	require.NoError(b, gen.Write(&buf, gen.Options{Rows: 1_000_000, Seed: 1}))
	path := writeFile(b, "measurements.txt", buf.String())
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if code := run([]string{"-n", strconv.Itoa(runtime.NumCPU()), path}, &bytes.Buffer{}, os.Stderr); code != 0 {
			b.Fatalf("exit code %d", code)
		}
	}
}
