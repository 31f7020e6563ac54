package brc

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

const (
	fieldSep = ';'
	endLine  = '\n'
)

var (
	ErrNoSeparator  = errors.New("separator not found")
	ErrInvalidValue = errors.New("invalid value")
	ErrNonFinite    = errors.New("non-finite value")
)

// LineError is a parse failure annotated with the byte offset of its line.
type LineError struct {
	Offset int64
	Line   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line at offset %d %q: %s", e.Offset, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLine splits line (terminator already stripped) on the first ';'.
// The returned key aliases line.
func ParseLine(line []byte) ([]byte, float64, error) {
	sep := bytes.IndexByte(line, fieldSep)
	if sep == -1 {
		return nil, 0, ErrNoSeparator
	}

	m, err := ParseValue(line[sep+1:])
	if err != nil {
		return nil, 0, err
	}
	return line[:sep], m, nil
}

// float64 holds every power of ten up to 1e22 exactly.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// ParseValue parses a plain decimal literal: optional sign, digits, optional
// fractional part. Exponents, hex floats, inf and nan are rejected.
func ParseValue(input []byte) (float64, error) {
	i := 0
	negative := false
	if len(input) > 0 && (input[0] == '-' || input[0] == '+') {
		negative = input[0] == '-'
		i++
	}

	var mantissa uint64
	var digits, intDigits, fracDigits int
	var dotSeen bool
	for ; i < len(input); i++ {
		b := input[i]
		switch {
		case b >= '0' && b <= '9':
			if digits > 0 || b != '0' {
				digits++
			}
			if digits <= 15 {
				mantissa = mantissa*10 + uint64(b-'0')
			}
			if dotSeen {
				fracDigits++
			} else {
				intDigits++
			}
		case b == '.' && !dotSeen:
			dotSeen = true
		default:
			return 0, ErrInvalidValue
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return 0, ErrInvalidValue
	}

	// mantissa and 10^fracDigits are both exact, so the division is correctly rounded
	if digits <= 15 && fracDigits < len(pow10) {
		m := float64(mantissa) / pow10[fracDigits]
		if negative {
			m = -m
		}
		return m, nil
	}

	m, err := strconv.ParseFloat(unsafe.String(unsafe.SliceData(input), len(input)), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, ErrInvalidValue
	}
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return 0, ErrNonFinite
	}
	return m, nil
}
