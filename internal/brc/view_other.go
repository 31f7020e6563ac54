//go:build !(linux || darwin)

package brc

func openMadvise(string) (View, error) {
	return nil, ErrViewUnsupported
}
