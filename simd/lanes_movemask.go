package simd

import (
	"encoding/binary"
)

// MoveMask128 is the x86 SSSE3 lane backend: 16 lanes, pshufb lookups and a
// pmovmskb comparemask with one bit per lane.
type MoveMask128 struct{}

// Width implements Lanes.
func (MoveMask128) Width() int { return 16 }

// MaskWidth implements Lanes.
func (MoveMask128) MaskWidth() int { return 1 }

// Load implements Lanes.
func (MoveMask128) Load(p []byte) Vec128 {
	return Vec128(p[:16])
}

// LoadPartial implements Lanes.
func (MoveMask128) LoadPartial(p []byte) Vec128 {
	var v Vec128
	copy(v[:], p)
	return v
}

// Splat implements Lanes.
func (MoveMask128) Splat(b byte) Vec128 {
	var v Vec128
	w := uint64(b) * lo8
	binary.LittleEndian.PutUint64(v[0:], w)
	binary.LittleEndian.PutUint64(v[8:], w)
	return v
}

// Broadcast16 implements Lanes.
func (MoveMask128) Broadcast16(t *[16]byte) Vec128 {
	return Vec128(*t)
}

// ShuffleNibble implements Lanes.
func (MoveMask128) ShuffleNibble(table, idx Vec128) Vec128 {
	var r Vec128
	for i := range r {
		r[i] = shuffle16(table[:], idx[i])
	}
	return r
}

// LowNibbles implements Lanes.
func (MoveMask128) LowNibbles(v Vec128) Vec128 {
	return map128(v, func(w uint64) uint64 { return w & nib8 })
}

// HighNibbles implements Lanes.
func (MoveMask128) HighNibbles(v Vec128) Vec128 {
	// psrlw $4 then pand: bits shifted across lane boundaries are masked off.
	return map128(v, func(w uint64) uint64 { return (w >> 4) & nib8 })
}

// And implements Lanes.
func (MoveMask128) And(a, b Vec128) Vec128 {
	return zip128(a, b, func(x, y uint64) uint64 { return x & y })
}

// Or implements Lanes.
func (MoveMask128) Or(a, b Vec128) Vec128 {
	return zip128(a, b, func(x, y uint64) uint64 { return x | y })
}

// Not implements Lanes.
func (MoveMask128) Not(a Vec128) Vec128 {
	return map128(a, func(w uint64) uint64 { return ^w })
}

// CompareNotZero implements Lanes.
func (MoveMask128) CompareNotZero(v Vec128) Vec128 {
	return map128(v, nonZeroBytes)
}

// ReduceMax implements Lanes.
func (MoveMask128) ReduceMax(v Vec128) uint64 {
	return max(binary.LittleEndian.Uint64(v[0:]), binary.LittleEndian.Uint64(v[8:]))
}

// CompareMask implements Lanes.
func (MoveMask128) CompareMask(v Vec128) uint16 {
	lo := moveMask8(binary.LittleEndian.Uint64(v[0:]))
	hi := moveMask8(binary.LittleEndian.Uint64(v[8:]))
	return uint16(lo | hi<<8)
}

// FirstN implements Lanes.
func (MoveMask128) FirstN(n int) Vec128 {
	var v Vec128
	for i := 0; i < n && i < len(v); i++ {
		v[i] = 0xff
	}
	return v
}

// MoveMask256 is the x86 AVX2 lane backend: 32 lanes, vpshufb lookups that
// stay within each 128-bit segment and a vpmovmskb comparemask.
type MoveMask256 struct{}

// Width implements Lanes.
func (MoveMask256) Width() int { return 32 }

// MaskWidth implements Lanes.
func (MoveMask256) MaskWidth() int { return 1 }

// Load implements Lanes.
func (MoveMask256) Load(p []byte) Vec256 {
	return Vec256(p[:32])
}

// LoadPartial implements Lanes.
func (MoveMask256) LoadPartial(p []byte) Vec256 {
	var v Vec256
	copy(v[:], p)
	return v
}

// Splat implements Lanes.
func (MoveMask256) Splat(b byte) Vec256 {
	var v Vec256
	w := uint64(b) * lo8
	for i := 0; i < 32; i += 8 {
		binary.LittleEndian.PutUint64(v[i:], w)
	}
	return v
}

// Broadcast16 implements Lanes.
func (MoveMask256) Broadcast16(t *[16]byte) Vec256 {
	var v Vec256
	copy(v[:16], t[:])
	copy(v[16:], t[:])
	return v
}

// ShuffleNibble implements Lanes.
func (MoveMask256) ShuffleNibble(table, idx Vec256) Vec256 {
	var r Vec256
	for i := 0; i < 16; i++ {
		r[i] = shuffle16(table[:16], idx[i])
	}
	for i := 16; i < 32; i++ {
		r[i] = shuffle16(table[16:], idx[i])
	}
	return r
}

// LowNibbles implements Lanes.
func (MoveMask256) LowNibbles(v Vec256) Vec256 {
	return map256(v, func(w uint64) uint64 { return w & nib8 })
}

// HighNibbles implements Lanes.
func (MoveMask256) HighNibbles(v Vec256) Vec256 {
	return map256(v, func(w uint64) uint64 { return (w >> 4) & nib8 })
}

// And implements Lanes.
func (MoveMask256) And(a, b Vec256) Vec256 {
	return zip256(a, b, func(x, y uint64) uint64 { return x & y })
}

// Or implements Lanes.
func (MoveMask256) Or(a, b Vec256) Vec256 {
	return zip256(a, b, func(x, y uint64) uint64 { return x | y })
}

// Not implements Lanes.
func (MoveMask256) Not(a Vec256) Vec256 {
	return map256(a, func(w uint64) uint64 { return ^w })
}

// CompareNotZero implements Lanes.
func (MoveMask256) CompareNotZero(v Vec256) Vec256 {
	return map256(v, nonZeroBytes)
}

// ReduceMax implements Lanes.
func (MoveMask256) ReduceMax(v Vec256) uint64 {
	var m uint64
	for i := 0; i < 32; i += 8 {
		m = max(m, binary.LittleEndian.Uint64(v[i:]))
	}
	return m
}

// CompareMask implements Lanes.
func (MoveMask256) CompareMask(v Vec256) uint32 {
	var z uint64
	for i := 0; i < 4; i++ {
		z |= moveMask8(binary.LittleEndian.Uint64(v[i*8:])) << (8 * i)
	}
	return uint32(z)
}

// FirstN implements Lanes.
func (MoveMask256) FirstN(n int) Vec256 {
	var v Vec256
	for i := 0; i < n && i < len(v); i++ {
		v[i] = 0xff
	}
	return v
}

func map128(v Vec128, f func(uint64) uint64) Vec128 {
	var r Vec128
	binary.LittleEndian.PutUint64(r[0:], f(binary.LittleEndian.Uint64(v[0:])))
	binary.LittleEndian.PutUint64(r[8:], f(binary.LittleEndian.Uint64(v[8:])))
	return r
}

func zip128(a, b Vec128, f func(x, y uint64) uint64) Vec128 {
	var r Vec128
	for i := 0; i < 16; i += 8 {
		binary.LittleEndian.PutUint64(r[i:],
			f(binary.LittleEndian.Uint64(a[i:]), binary.LittleEndian.Uint64(b[i:])))
	}
	return r
}

func map256(v Vec256, f func(uint64) uint64) Vec256 {
	var r Vec256
	for i := 0; i < 32; i += 8 {
		binary.LittleEndian.PutUint64(r[i:], f(binary.LittleEndian.Uint64(v[i:])))
	}
	return r
}

func zip256(a, b Vec256, f func(x, y uint64) uint64) Vec256 {
	var r Vec256
	for i := 0; i < 32; i += 8 {
		binary.LittleEndian.PutUint64(r[i:],
			f(binary.LittleEndian.Uint64(a[i:]), binary.LittleEndian.Uint64(b[i:])))
	}
	return r
}
