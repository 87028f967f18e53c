package simd

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/mtremer/vectorscan/internal/assert"
)

// Scalable vector length limits, in bytes. SVE allows any multiple of 128
// bits from 128 to 2048.
const (
	MinScalableBytes = 16
	MaxScalableBytes = 256
)

// ErrVectorLength indicates an unsupported scalable vector length.
var ErrVectorLength = errors.New("scalable vector length must be a multiple of 16 in [16, 256]")

// ScalableVec holds up to MaxScalableBytes byte lanes. Only the first
// Scalable.Len() lanes are meaningful.
type ScalableVec [MaxScalableBytes]byte

// Pred is a per-lane active/inactive predicate over a scalable vector.
type Pred struct {
	bits [MaxScalableBytes / 64]uint64
}

func (p *Pred) set(i int) {
	p.bits[i>>6] |= 1 << (uint(i) & 63)
}

// Active reports whether lane i is active.
func (p Pred) Active(i int) bool {
	return p.bits[i>>6]&(1<<(uint(i)&63)) != 0
}

// Scalable is the SVE lane backend. Its vector length is fixed per value but
// chosen at runtime, so kernels built on it return lane indices with the
// vector length itself as the not-found sentinel.
type Scalable struct {
	vl int
}

// NewScalable returns a backend with a vector length of vl bytes.
func NewScalable(vl int) (Scalable, error) {
	if vl < MinScalableBytes || vl > MaxScalableBytes || vl%MinScalableBytes != 0 {
		return Scalable{}, fmt.Errorf("%w: got %d", ErrVectorLength, vl)
	}
	return Scalable{vl: vl}, nil
}

// Len returns the vector length in byte lanes (svcntb).
func (s Scalable) Len() int {
	return s.vl
}

// PTrue returns a predicate with every lane active.
func (s Scalable) PTrue() Pred {
	return s.WhileLT(0, s.vl)
}

// PFalse returns a predicate with no active lanes.
func PFalse() Pred {
	return Pred{}
}

// WhileLT returns a predicate with lane j active while i+j < n (svwhilelt_b8).
func (s Scalable) WhileLT(i, n int) Pred {
	var p Pred
	active := min(max(n-i, 0), s.vl)
	for w := 0; active > 0; w++ {
		if active >= 64 {
			p.bits[w] = ^uint64(0)
			active -= 64
			continue
		}
		p.bits[w] = 1<<uint(active) - 1
		active = 0
	}
	return p
}

// Load reads the active lanes of pg from src into dst and zeroes the inactive
// ones (svld1_u8). Inactive lanes are never read, so src may be shorter
// than the vector length.
func (s Scalable) Load(pg Pred, src []byte, dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		if pg.Active(i) {
			dst[i] = src[i]
		} else {
			dst[i] = 0
		}
	}
}

// Index fills dst with 0, 1, 2, ... (svindex_u8(0, 1)).
func (s Scalable) Index(dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		dst[i] = byte(i)
	}
}

// Nibbles splits src into its low and high nibble vectors.
func (s Scalable) Nibbles(src, lo, hi *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		lo[i] = src[i] & 0x0f
		hi[i] = src[i] >> 4
	}
}

// ShuffleNibble looks up table[idx] per lane (svtbl over a 16-entry table
// replicated to the vector length). Indices are expected to be nibbles.
func (s Scalable) ShuffleNibble(table *[16]byte, idx, dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		dst[i] = shuffle16(table[:], idx[i])
	}
}

// AndZ computes a & b on the active lanes of pg and zeroes the rest
// (svand_z).
func (s Scalable) AndZ(pg Pred, a, b, dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		if pg.Active(i) {
			dst[i] = a[i] & b[i]
		} else {
			dst[i] = 0
		}
	}
}

// NotZ complements the active lanes of pg and zeroes the rest (svnot_z).
func (s Scalable) NotZ(pg Pred, a, dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		if pg.Active(i) {
			dst[i] = ^a[i]
		} else {
			dst[i] = 0
		}
	}
}

// CmpNE0 returns the active lanes of pg whose value is non-zero (svcmpne).
func (s Scalable) CmpNE0(pg Pred, v *ScalableVec) Pred {
	var p Pred
	for i := 0; i < s.vl; i++ {
		if pg.Active(i) && v[i] != 0 {
			p.set(i)
		}
	}
	return p
}

// DupZ sets the active lanes of pg to b and zeroes the rest (svdup_u8_z).
func (s Scalable) DupZ(pg Pred, b byte, dst *ScalableVec) {
	for i := 0; i < s.vl; i++ {
		if pg.Active(i) {
			dst[i] = b
		} else {
			dst[i] = 0
		}
	}
}

// PAndNot returns the lanes active in a but not in b (svbic_b_z).
func PAndNot(a, b Pred) Pred {
	var r Pred
	for i := range r.bits {
		r.bits[i] = a.bits[i] &^ b.bits[i]
	}
	return r
}

// PTestAny reports whether any lane is active in both pg and p.
func PTestAny(pg, p Pred) bool {
	var acc uint64
	for i := range p.bits {
		acc |= pg.bits[i] & p.bits[i]
	}
	return acc != 0
}

// Rev reverses lane order within the vector length (svrev_b8).
func (s Scalable) Rev(p Pred) Pred {
	var r Pred
	for i := 0; i < s.vl; i++ {
		if p.Active(i) {
			r.set(s.vl - 1 - i)
		}
	}
	return r
}

// PNext returns a predicate holding only the first active lane of pg that
// comes after the last active lane of prev (svpnext_b8).
func (s Scalable) PNext(pg, prev Pred) Pred {
	start := 0
	for w := len(prev.bits) - 1; w >= 0; w-- {
		if prev.bits[w] != 0 {
			start = w*64 + bits.Len64(prev.bits[w])
			break
		}
	}
	var r Pred
	for i := start; i < s.vl; i++ {
		if pg.Active(i) {
			r.set(i)
			break
		}
	}
	return r
}

// LastB returns the element of v at the last active lane of pg (svlastb).
// With no active lanes it returns the last element, as the instruction does.
func (s Scalable) LastB(pg Pred, v *ScalableVec) byte {
	for i := s.vl - 1; i >= 0; i-- {
		if pg.Active(i) {
			return v[i]
		}
	}
	return v[s.vl-1]
}

// IndexFirstPredicate returns the index of the first active lane of pred.
// pred must have at least one active lane.
func (s Scalable) IndexFirstPredicate(pred Pred) uint64 {
	assert.That(PTestAny(s.PTrue(), pred), "index of first lane of an empty predicate")
	var indices ScalableVec
	s.Index(&indices)
	single := s.PNext(pred, PFalse())
	return uint64(s.LastB(single, &indices))
}

// FirstNonZero returns the index of the first non-zero lane of mask, or
// vl when every lane is zero. Inactive lanes of mask must already be zero,
// and vl must equal Len().
func (s Scalable) FirstNonZero(vl int, mask *ScalableVec) uint64 {
	assert.That(vl == s.vl, "vl differs from the vector length")
	nonZero := s.CmpNE0(s.PTrue(), mask)
	if PTestAny(s.PTrue(), nonZero) {
		return s.IndexFirstPredicate(nonZero)
	}
	return uint64(vl)
}

// LastNonZero returns the index of the last non-zero lane of mask, or vl
// when every lane is zero. Inactive lanes of mask must already be zero,
// and vl must equal Len().
func (s Scalable) LastNonZero(vl int, mask *ScalableVec) uint64 {
	assert.That(vl == s.vl, "vl differs from the vector length")
	nonZero := s.CmpNE0(s.PTrue(), mask)
	if PTestAny(s.PTrue(), nonZero) {
		return uint64(vl) - 1 - s.IndexFirstPredicate(s.Rev(nonZero))
	}
	return uint64(vl)
}
