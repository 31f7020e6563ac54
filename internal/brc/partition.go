package brc

import (
	"bytes"
	"fmt"
	"io"
)

// Range is the half-open byte interval [Start, End) scanned by one worker.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Len() int64 {
	return r.End - r.Start
}

const probeSize = 4 * 1024

// Partition splits [0, size) into at most n contiguous ranges whose interior
// boundaries all sit right after a '\n'. Ranges that collapse because a
// record spans several even chunks are dropped, so every returned range is
// non-empty, except the single range returned for an empty input.
func Partition(r io.ReaderAt, size int64, n int) ([]Range, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid number of partitions: %d", n)
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid size: %d", size)
	}
	if size == 0 {
		return []Range{{}}, nil
	}
	if int64(n) > size {
		n = int(size)
	}

	chunk := size / int64(n)
	ranges := make([]Range, 0, n)
	var start int64
	probe := make([]byte, probeSize)
	for i := 1; i < n && start < size; i++ {
		end := max(int64(i)*chunk, start)
		if end <= start {
			continue
		}
		end, err := nextLineStart(r, end, size, probe)
		if err != nil {
			return nil, fmt.Errorf("partition %d boundary: %w", i, err)
		}
		if end == start {
			continue
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	if start < size {
		ranges = append(ranges, Range{Start: start, End: size})
	}

	return ranges, nil
}

// nextLineStart returns the first position >= pos that immediately follows a
// '\n', or size when there is none. pos must be > 0.
func nextLineStart(r io.ReaderAt, pos, size int64, probe []byte) (int64, error) {
	off := pos - 1
	for off < size {
		n, err := r.ReadAt(probe[:min(int64(len(probe)), size-off)], off)
		if i := bytes.IndexByte(probe[:n], endLine); i >= 0 {
			return off + int64(i) + 1, nil
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if n == 0 {
			return 0, io.ErrUnexpectedEOF
		}
		off += int64(n)
	}
	return size, nil
}
