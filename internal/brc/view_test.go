package brc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"onebrc/internal/gen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.txt")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

var allViews = []ViewKind{ViewMmap, ViewMadvise, ViewFile}

func TestOpenView(t *testing.T) {
	data := generate(t, gen.Options{Rows: 5_000, Seed: 5})
	path := writeInput(t, data)

	expected := aggregateBytes(t, data, 1)
	for _, kind := range allViews {
		t.Run(kind.String(), func(t *testing.T) {
			view, err := OpenView(path, kind)
			if err == ErrViewUnsupported {
				t.Skip(err)
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, view.Close()) }()
			assert.Equal(t, len(data), view.Len())

			res, err := Aggregate(context.Background(), view, Options{Workers: 4})
			require.NoError(t, err)
			assertSameStations(t, expected, res)
		})
	}
}

func TestOpenViewEmptyFile(t *testing.T) {
	path := writeInput(t, nil)
	for _, kind := range allViews {
		t.Run(kind.String(), func(t *testing.T) {
			view, err := OpenView(path, kind)
			if err == ErrViewUnsupported {
				t.Skip(err)
			}
			require.NoError(t, err)
			defer view.Close()

			res, err := Aggregate(context.Background(), view, Options{Workers: 4})
			require.NoError(t, err)
			assert.Equal(t, "{}", res.String())
		})
	}
}

func TestOpenViewMissingFile(t *testing.T) {
	for _, kind := range allViews {
		_, err := OpenView(filepath.Join(t.TempDir(), "nope.txt"), kind)
		assert.Error(t, err, kind)
	}
	_, err := OpenView("whatever", ViewKind("tape"))
	assert.Error(t, err)
}

func TestViewKindUnmarshalText(t *testing.T) {
	tcs := []struct {
		in       string
		expected ViewKind
		err      bool
	}{
		{"mmap", ViewMmap, false},
		{"madvise", ViewMadvise, false},
		{"file", ViewFile, false},
		{"tape", "", true},
	}
	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			var k ViewKind
			err := k.UnmarshalText([]byte(tc.in))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, k)
		})
	}
}
