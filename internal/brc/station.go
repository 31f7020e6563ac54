package brc

import "math"

// Station is the running min/max/count/sum summary of one key.
// The zero value is not the identity, use NewStation.
type Station struct {
	Min   float64
	Max   float64
	Total float64
	N     uint64
}

// NewStation returns the identity state: combining it with any state S yields S.
func NewStation() Station {
	return Station{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}
}

// NewMeasurement folds m into the station.
func (s *Station) NewMeasurement(m float64) {
	if m < s.Min {
		s.Min = m
	}
	if m > s.Max {
		s.Max = m
	}
	s.Total += m
	s.N++
}

// Merge folds another partial summary of the same key into s.
func (s *Station) Merge(o Station) {
	if o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
	s.Total += o.Total
	s.N += o.N
}

// Combine is the value form of Merge.
func Combine(a, b Station) Station {
	a.Merge(b)
	return a
}

// Mean is Total / N. It is NaN for the identity state.
func (s Station) Mean() float64 {
	return s.Total / float64(s.N)
}

// Empty reports whether no measurement was folded in.
func (s Station) Empty() bool {
	return s.N == 0
}
