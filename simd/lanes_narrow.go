package simd

import "encoding/binary"

// Narrow128 is the ARM NEON lane backend: 16 lanes, tbl lookups and a
// comparemask built by narrowing each 16-bit pair right by 4 (shrn #4), which
// leaves four mask bits per lane in a 64-bit scalar.
type Narrow128 struct{}

// Width implements Lanes.
func (Narrow128) Width() int { return 16 }

// MaskWidth implements Lanes.
func (Narrow128) MaskWidth() int { return 4 }

// Load implements Lanes.
func (Narrow128) Load(p []byte) Vec128 {
	return Vec128(p[:16])
}

// LoadPartial implements Lanes.
func (Narrow128) LoadPartial(p []byte) Vec128 {
	var v Vec128
	copy(v[:], p)
	return v
}

// Splat implements Lanes.
func (Narrow128) Splat(b byte) Vec128 {
	return MoveMask128{}.Splat(b)
}

// Broadcast16 implements Lanes.
func (Narrow128) Broadcast16(t *[16]byte) Vec128 {
	return Vec128(*t)
}

// ShuffleNibble implements Lanes. Like vqtbl1q it returns zero for every
// index >= 16, which includes the high-bit indices pshufb zeroes.
func (Narrow128) ShuffleNibble(table, idx Vec128) Vec128 {
	var r Vec128
	for i := range r {
		r[i] = tbl16(table[:], idx[i])
	}
	return r
}

// tbl16 performs one tbl-style 16-entry lookup for a single lane.
func tbl16(t []byte, idx byte) byte {
	if idx >= 16 {
		return 0
	}
	return t[idx]
}

// LowNibbles implements Lanes.
func (Narrow128) LowNibbles(v Vec128) Vec128 {
	return map128(v, func(w uint64) uint64 { return w & nib8 })
}

// HighNibbles implements Lanes.
func (Narrow128) HighNibbles(v Vec128) Vec128 {
	// vshrq_n_u8 shifts per byte, no cross-lane bits to clear.
	return map128(v, func(w uint64) uint64 { return (w >> 4) & nib8 })
}

// And implements Lanes.
func (Narrow128) And(a, b Vec128) Vec128 {
	return zip128(a, b, func(x, y uint64) uint64 { return x & y })
}

// Or implements Lanes.
func (Narrow128) Or(a, b Vec128) Vec128 {
	return zip128(a, b, func(x, y uint64) uint64 { return x | y })
}

// Not implements Lanes.
func (Narrow128) Not(a Vec128) Vec128 {
	return map128(a, func(w uint64) uint64 { return ^w })
}

// CompareNotZero implements Lanes.
func (Narrow128) CompareNotZero(v Vec128) Vec128 {
	return map128(v, nonZeroBytes)
}

// ReduceMax implements Lanes. It mirrors vpmaxq_u32 over the four 32-bit
// words followed by reading back the low 64 bits.
func (Narrow128) ReduceMax(v Vec128) uint64 {
	var w [4]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(v[i*4:])
	}
	return uint64(max(w[0], w[1])) | uint64(max(w[2], w[3]))<<32
}

// CompareMask implements Lanes.
func (Narrow128) CompareMask(v Vec128) uint64 {
	var z uint64
	for i := 0; i < 16; i += 2 {
		// shrn #4 on the 16-bit pair (v[i+1]:v[i]) keeps bits 4..11.
		pair := uint64(v[i]) | uint64(v[i+1])<<8
		z |= ((pair >> 4) & 0xff) << (4 * i)
	}
	return z
}

// FirstN implements Lanes.
func (Narrow128) FirstN(n int) Vec128 {
	return MoveMask128{}.FirstN(n)
}
