package simd

import (
	"math/bits"

	"golang.org/x/exp/constraints"

	"github.com/mtremer/vectorscan/internal/assert"
)

// NoMatch is returned by the extraction primitives when no lane qualifies.
const NoMatch = -1

// Extractor binds the four match-position extraction primitives to one lane
// backend. The zero value is ready to use.
//
// Every primitive takes off, the buffer offset of lane 0, and returns
// off+lane for the qualifying lane or NoMatch. The mask argument is a
// per-lane comparison result: each lane is 0x00 or 0xFF.
type Extractor[V Vector, M constraints.Unsigned, L Lanes[V, M]] struct {
	lanes L
}

// NewExtractor returns an Extractor over the given backend.
func NewExtractor[V Vector, M constraints.Unsigned, L Lanes[V, M]](lanes L) Extractor[V, M, L] {
	return Extractor[V, M, L]{lanes: lanes}
}

// Lanes returns the backend.
func (e Extractor[V, M, L]) Lanes() L {
	return e.lanes
}

// FirstNonZeroMatch returns off plus the index of the first non-zero lane.
func (e Extractor[V, M, L]) FirstNonZeroMatch(off int, mask V) int {
	if e.lanes.ReduceMax(mask) == 0 {
		return NoMatch
	}
	z := uint64(e.lanes.CompareMask(mask))
	pos := bits.TrailingZeros64(z) / e.lanes.MaskWidth()
	assert.That(pos < e.lanes.Width(), "first match lane out of range")
	return off + pos
}

// LastNonZeroMatch returns off plus the index of the last non-zero lane.
func (e Extractor[V, M, L]) LastNonZeroMatch(off int, mask V) int {
	if e.lanes.ReduceMax(mask) == 0 {
		return NoMatch
	}
	w := e.lanes.Width()
	z := uint64(e.lanes.CompareMask(mask))
	// leading zeros counted within the W*MaskWidth significant bits
	pos := (w*e.lanes.MaskWidth() - bits.Len64(z)) / e.lanes.MaskWidth()
	assert.That(pos < w, "last match lane out of range")
	return off + (w - 1 - pos)
}

// FirstZeroMatchInverted returns off plus the index of the first zero lane
// of mask, found as the first non-zero lane of its complement.
func (e Extractor[V, M, L]) FirstZeroMatchInverted(off int, mask V) int {
	return e.FirstNonZeroMatch(off, e.lanes.Not(mask))
}

// LastZeroMatchInverted returns off plus the index of the last zero lane of
// mask, found as the last non-zero lane of its complement.
func (e Extractor[V, M, L]) LastZeroMatchInverted(off int, mask V) int {
	return e.LastNonZeroMatch(off, e.lanes.Not(mask))
}

// Instantiations used by the kernels.
type (
	// NativeExtractor128 extracts from the architecture's 16-lane backend.
	NativeExtractor128 = Extractor[Vec128, NativeMask128, Native128]

	// Extractor256 extracts from the 32-lane backend.
	Extractor256 = Extractor[Vec256, uint32, MoveMask256]
)
