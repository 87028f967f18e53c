package prefilter

import (
	"github.com/mtremer/vectorscan/charclass"
	"github.com/mtremer/vectorscan/truffle"
)

// ClassPrefilter finds class members with the truffle kernel.
//
// It is effective for classes too large for a byte search but rare in the
// input, such as digits in prose or vowels in hex dumps:
//   - Numeric: `[0-9]+`
//   - Identifiers: `[A-Za-z_][A-Za-z0-9_]*`
//   - Separators: `[,;:|]`
type ClassPrefilter struct {
	masks    *truffle.Masks
	complete bool
}

// NewClassPrefilter returns a truffle prefilter for c. It fails with an
// error wrapping truffle.ErrNotEncodable when c has no nibble encoding.
func NewClassPrefilter(c charclass.Class) (*ClassPrefilter, error) {
	table := c.Table()
	m, err := truffle.Build(&table)
	if err != nil {
		return nil, err
	}
	return &ClassPrefilter{masks: m}, nil
}

// Find returns the index of the first class member at or after start, or -1.
func (p *ClassPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	tail := haystack[start:]
	idx := truffle.Exec(p.masks, tail)
	if idx == len(tail) {
		return -1
	}
	return start + idx
}

// IsComplete reports whether a member byte is a complete match.
func (p *ClassPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen is 1 for a complete prefilter and 0 otherwise.
func (p *ClassPrefilter) LiteralLen() int {
	return literalLen(p.complete)
}

// HeapBytes returns the size of the nibble tables.
func (p *ClassPrefilter) HeapBytes() int {
	return len(p.masks.Lo) + len(p.masks.Hi)
}

// Masks returns the nibble tables the prefilter scans with.
func (p *ClassPrefilter) Masks() *truffle.Masks {
	return p.masks
}
