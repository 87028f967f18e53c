package simd

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Vec128 is a 16-lane byte vector (one SSE/NEON register).
type Vec128 [16]byte

// Vec256 is a 32-lane byte vector (one AVX2 register).
type Vec256 [32]byte

// Vector is the set of fixed-width lane vectors a backend can operate on.
type Vector interface {
	Vec128 | Vec256
}

// Lanes is the per-architecture operation set over a fixed-width vector V
// whose per-lane comparison result packs into the comparemask integer M.
//
// Backends are value types with no state, so a Lanes value is free to copy
// and every method is safe for concurrent use.
type Lanes[V Vector, M constraints.Unsigned] interface {
	// Width is the number of byte lanes in V.
	Width() int

	// MaskWidth is the number of comparemask bits produced per lane.
	MaskWidth() int

	// Load reads Width() bytes from the front of p. len(p) must be >= Width().
	Load(p []byte) V

	// LoadPartial reads len(p) < Width() bytes and zero-fills the remaining
	// lanes. It never touches memory past the end of p.
	LoadPartial(p []byte) V

	// Splat replicates b into every lane.
	Splat(b byte) V

	// Broadcast16 replicates a 16-entry table into every 128-bit segment.
	Broadcast16(t *[16]byte) V

	// ShuffleNibble looks up table[idx&0xF] per lane within each 128-bit
	// segment. Lanes whose index has the high bit set produce zero.
	ShuffleNibble(table, idx V) V

	// LowNibbles returns v & 0x0F per lane.
	LowNibbles(v V) V

	// HighNibbles returns (v >> 4) & 0x0F per lane.
	HighNibbles(v V) V

	And(a, b V) V
	Or(a, b V) V
	Not(a V) V

	// CompareNotZero sets a lane to 0xFF if it is non-zero, 0x00 otherwise.
	CompareNotZero(v V) V

	// ReduceMax returns a scalar that is non-zero iff any lane is non-zero.
	ReduceMax(v V) uint64

	// CompareMask packs MaskWidth() bits per lane, lane 0 in the low bits.
	CompareMask(v V) M

	// FirstN returns a vector with lanes [0, n) set to 0xFF and the rest zero.
	FirstN(n int) V
}

func (v Vec128) String() string {
	return fmt.Sprintf("%016x%016x",
		binary.LittleEndian.Uint64(v[8:16]), binary.LittleEndian.Uint64(v[0:8]))
}

func (v Vec256) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x",
		binary.LittleEndian.Uint64(v[24:32]), binary.LittleEndian.Uint64(v[16:24]),
		binary.LittleEndian.Uint64(v[8:16]), binary.LittleEndian.Uint64(v[0:8]))
}

// SWAR helpers shared by the byte-lane backends. All operate on eight lanes
// packed little-endian into a uint64.
const (
	lo8  = uint64(0x0101010101010101)
	hi8  = uint64(0x8080808080808080)
	low7 = uint64(0x7f7f7f7f7f7f7f7f)
	nib8 = uint64(0x0f0f0f0f0f0f0f0f)
)

// nonZeroBytes returns 0xFF in every byte of x that is non-zero.
func nonZeroBytes(x uint64) uint64 {
	y := ((x & low7) + low7) | x
	return ((y & hi8) >> 7) * 0xff
}

// moveMask8 gathers the high bit of each byte of x into an 8-bit mask.
func moveMask8(x uint64) uint64 {
	return ((x & hi8) * 0x0002040810204081) >> 56
}

// shuffle16 performs one pshufb-style 16-entry lookup for a single lane.
func shuffle16(t []byte, idx byte) byte {
	return t[idx&0x0f] &^ byte(int8(idx)>>7)
}
