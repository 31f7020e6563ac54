//go:build linux || darwin

package brc

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func openMadvise(inputFile string) (View, error) {
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", inputFile, err)
	}

	size := fi.Size()
	if size != int64(int(size)) {
		return nil, fmt.Errorf("file %q is too large", inputFile)
	}
	if size == 0 {
		return NewBytesView(nil), nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", inputFile, err)
	}
	for _, advice := range []int{unix.MADV_SEQUENTIAL, unix.MADV_WILLNEED} {
		if err := unix.Madvise(data, advice); err != nil {
			unix.Munmap(data)
			return nil, fmt.Errorf("madvise %s: %w", inputFile, err)
		}
	}

	return &bytesView{
		r:    bytes.NewReader(data),
		data: data,
		done: func() error { return unix.Munmap(data) },
	}, nil
}
