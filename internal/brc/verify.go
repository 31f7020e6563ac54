package brc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreyvit/diff"
)

var ErrMismatch = errors.New("result does not match expected output")

// Verify compares the brace rendering of r with expected. On mismatch the
// error carries a line diff with one station per line.
func Verify(expected string, r *Result) error {
	expected = strings.TrimSpace(expected)
	got := r.String()
	if expected == got {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrMismatch, diff.LineDiff(splitEntries(expected), splitEntries(got)))
}

func splitEntries(s string) string {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return strings.ReplaceAll(s, ", ", "\n")
}
