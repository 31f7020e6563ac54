package brc

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

const defaultTableBuckets = 4096

// StationTable is a chained hash table from station name to Station.
// It is owned by a single goroutine: there is no locking.
type StationTable struct {
	buckets []*Entry
	mask    uint64
	entries []*Entry
}

type Entry struct {
	name    string
	hash    uint64
	station Station
	next    *Entry
}

func (e *Entry) Name() string {
	return e.name
}

func (e *Entry) Station() *Station {
	return &e.station
}

func NewStationTable(nbuckets uint64) (*StationTable, error) {
	// http://www.graphics.stanford.edu/~seander/bithacks.html#DetermineIfPowerOf2
	if nbuckets == 0 || (nbuckets&(nbuckets-1)) != 0 {
		return nil, fmt.Errorf("nbuckets must be a power of 2: %d", nbuckets)
	}
	return &StationTable{
		buckets: make([]*Entry, nbuckets),
		mask:    nbuckets - 1,
		entries: make([]*Entry, 0, nbuckets/2),
	}, nil
}

// Upsert returns the station for name, inserting the identity state if it is
// not present yet. name is copied on insert only.
func (t *StationTable) Upsert(name []byte) *Station {
	h := xxhash.Sum64(name)

	for e := t.buckets[h&t.mask]; e != nil; e = e.next {
		if e.hash == h && e.name == string(name) {
			return &e.station
		}
	}

	return &t.insert(string(name), h).station
}

func (t *StationTable) upsertString(name string) *Station {
	h := xxhash.Sum64String(name)

	for e := t.buckets[h&t.mask]; e != nil; e = e.next {
		if e.hash == h && e.name == name {
			return &e.station
		}
	}

	return &t.insert(name, h).station
}

func (t *StationTable) insert(name string, h uint64) *Entry {
	if len(t.entries) >= len(t.buckets)/4*3 {
		t.grow()
	}

	e := &Entry{
		name:    name,
		hash:    h,
		station: NewStation(),
	}
	b := h & t.mask
	e.next = t.buckets[b]
	t.buckets[b] = e
	t.entries = append(t.entries, e)
	return e
}

func (t *StationTable) grow() {
	t.buckets = make([]*Entry, len(t.buckets)*2)
	t.mask = uint64(len(t.buckets) - 1)
	for _, e := range t.entries {
		b := e.hash & t.mask
		e.next = t.buckets[b]
		t.buckets[b] = e
	}
}

// Get returns the station for name without inserting it.
func (t *StationTable) Get(name string) (Station, bool) {
	h := xxhash.Sum64String(name)
	for e := t.buckets[h&t.mask]; e != nil; e = e.next {
		if e.hash == h && e.name == name {
			return e.station, true
		}
	}
	return Station{}, false
}

func (t *StationTable) Len() int {
	return len(t.entries)
}

// Entries returns the entries in insertion order.
func (t *StationTable) Entries() []*Entry {
	return t.entries
}

// MergeFrom folds every entry of o into t.
func (t *StationTable) MergeFrom(o *StationTable) {
	for _, e := range o.entries {
		if e.station.Empty() {
			continue
		}
		t.upsertString(e.name).Merge(e.station)
	}
}

// KnownEntries returns the station names in ascending byte order.
func (t *StationTable) KnownEntries() []string {
	keys := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		keys = append(keys, e.name)
	}
	slices.Sort(keys)
	return keys
}
