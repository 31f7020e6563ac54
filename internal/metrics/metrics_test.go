package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"onebrc/internal/brc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregate(t *testing.T, input string, workers int) *brc.Result {
	t.Helper()
	res, err := brc.Aggregate(context.Background(), brc.NewBytesView([]byte(input)), brc.Options{Workers: workers})
	require.NoError(t, err)
	return res
}

func TestTextfileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.prom")
	b, err := NewTextfileBackend(path)
	require.NoError(t, err)

	res := aggregate(t, "Paris;10.0\nParis;20.0\nHamburg;5.5\nbroken\n", 2)
	rec := NewRecorder(b)
	rec.RecordRun(res, nil, 1500*time.Millisecond)
	require.NoError(t, rec.Flush())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `brc_runs_total{status="success"} 1`)
	assert.Contains(t, text, `brc_lines_total{kind="processed"} 3`)
	assert.Contains(t, text, `brc_lines_total{kind="parse_failure"} 1`)
	assert.Contains(t, text, `brc_stations 2`)
	assert.Contains(t, text, `brc_run_duration_seconds_count{status="success"} 1`)
	assert.Contains(t, text, `brc_partition_bytes{partition="0"}`)

	families, err := b.Gatherer().Gather()
	require.NoError(t, err)
	byName := make(map[string]int)
	for _, mf := range families {
		byName[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, 2, byName[MetricLines])
	assert.Equal(t, 1, byName[MetricStations])
	assert.Equal(t, len(res.Partitions), byName[MetricPartitionDuration])
	assert.Equal(t, len(res.Partitions), byName[MetricPartitionBytes])
}

func TestRecordFailedRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.prom")
	b, err := NewTextfileBackend(path)
	require.NoError(t, err)

	rec := NewRecorder(b)
	rec.RecordRun(nil, errors.New("boom"), time.Second)
	require.NoError(t, rec.Flush())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `brc_runs_total{status="failure"} 1`)
	assert.Contains(t, string(out), "brc_stations 0")
	assert.NotContains(t, string(out), "brc_lines_total{")
}

func TestNopRecorder(t *testing.T) {
	rec := NewRecorder(nil)
	rec.RecordRun(aggregate(t, "A;1.0\n", 1), nil, time.Millisecond)
	assert.NoError(t, rec.Flush())
}

func TestNewTextfileBackendRequiresPath(t *testing.T) {
	_, err := NewTextfileBackend("")
	assert.Error(t, err)
}
