package brc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// View is a read-only, byte-addressable view of a file's content that can be
// shared by all scanners.
type View interface {
	io.ReaderAt
	Len() int
	Close() error
}

// ByteViewer is implemented by views backed by memory the scanner can read
// in place.
type ByteViewer interface {
	Bytes() []byte
}

type ViewKind string

const (
	ViewMmap    ViewKind = "mmap"
	ViewMadvise ViewKind = "madvise"
	ViewFile    ViewKind = "file"
)

var ErrViewUnsupported = errors.New("view not supported on this platform")

func (k ViewKind) String() string {
	return string(k)
}

func (k ViewKind) MarshalText() ([]byte, error) {
	return []byte(k), nil
}

func (k *ViewKind) UnmarshalText(b []byte) error {
	switch v := ViewKind(b); v {
	case ViewMmap, ViewMadvise, ViewFile:
		*k = v
		return nil
	}
	return fmt.Errorf("unknown view %q, want one of mmap, madvise, file", string(b))
}

// OpenView opens inputFile with the requested access primitive.
func OpenView(inputFile string, kind ViewKind) (View, error) {
	switch kind {
	case ViewMmap:
		mm, err := mmap.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("mmap.Open: %w", err)
		}
		return mm, nil
	case ViewMadvise:
		return openMadvise(inputFile)
	case ViewFile:
		return openFile(inputFile)
	}
	return nil, fmt.Errorf("unknown view %q", kind)
}

type fileView struct {
	f    *os.File
	size int
}

func openFile(inputFile string) (*fileView, error) {
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", inputFile, err)
	}
	size := fi.Size()
	if size != int64(int(size)) {
		f.Close()
		return nil, fmt.Errorf("file %q is too large", inputFile)
	}
	adviseSequential(f)
	return &fileView{f: f, size: int(size)}, nil
}

func (v *fileView) ReadAt(p []byte, off int64) (int, error) {
	return v.f.ReadAt(p, off)
}

func (v *fileView) Len() int {
	return v.size
}

func (v *fileView) Close() error {
	return v.f.Close()
}

type bytesView struct {
	r    *bytes.Reader
	data []byte
	done func() error
}

// NewBytesView wraps an in-memory buffer.
func NewBytesView(data []byte) View {
	return &bytesView{r: bytes.NewReader(data), data: data}
}

func (v *bytesView) ReadAt(p []byte, off int64) (int, error) {
	return v.r.ReadAt(p, off)
}

func (v *bytesView) Len() int {
	return len(v.data)
}

func (v *bytesView) Bytes() []byte {
	return v.data
}

func (v *bytesView) Close() error {
	if v.done == nil {
		return nil
	}
	done := v.done
	v.done = nil
	return done()
}
