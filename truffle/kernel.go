package truffle

import (
	"golang.org/x/exp/constraints"

	"github.com/mtremer/vectorscan/simd"
)

// kernel is the block scan loop over one fixed-width lane backend.
//
// Buffers of at least one vector are scanned in whole blocks; the final
// partial block is re-read as a full block ending at the buffer end (or
// starting at the buffer start, in reverse). The overlapped lanes were
// already rejected by the previous block, so the first (last) qualifying
// lane of the re-read block is still the answer. Buffers shorter than one
// vector are loaded into a zero-filled register and masked with FirstN, so
// no byte outside the buffer is ever read.
type kernel[V simd.Vector, M constraints.Unsigned, L simd.Lanes[V, M]] struct {
	lanes L
	x     simd.Extractor[V, M, L]
}

// tables is a nibble table pair broadcast to the kernel's width.
type tables[V simd.Vector] struct {
	lo, hi V
}

func (k kernel[V, M, L]) load(m *Masks) tables[V] {
	return tables[V]{lo: k.lanes.Broadcast16(&m.Lo), hi: k.lanes.Broadcast16(&m.Hi)}
}

// classify returns 0xFF in every lane of v whose byte is in the class.
func (k kernel[V, M, L]) classify(t *tables[V], v V) V {
	l := k.lanes
	lo := l.ShuffleNibble(t.lo, l.LowNibbles(v))
	hi := l.ShuffleNibble(t.hi, l.HighNibbles(v))
	return l.CompareNotZero(l.And(lo, hi))
}

// short classifies a buffer shorter than one vector. Lanes past the end are
// forced to outside (0x00) when pad is false and inside (0xFF) when true.
func (k kernel[V, M, L]) short(t *tables[V], buf []byte, pad bool) V {
	l := k.lanes
	c := k.classify(t, l.LoadPartial(buf))
	valid := l.FirstN(len(buf))
	if pad {
		return l.Or(c, l.Not(valid))
	}
	return l.And(c, valid)
}

// exec returns the index of the first member byte, or len(buf).
func (k kernel[V, M, L]) exec(m *Masks, buf []byte) int {
	t := k.load(m)
	n, w := len(buf), k.lanes.Width()
	if n < w {
		if pos := k.x.FirstNonZeroMatch(0, k.short(&t, buf, false)); pos != simd.NoMatch {
			return pos
		}
		return n
	}

	i := 0
	for ; i+w <= n; i += w {
		if pos := k.x.FirstNonZeroMatch(i, k.classify(&t, k.lanes.Load(buf[i:]))); pos != simd.NoMatch {
			return pos
		}
	}
	if i < n {
		off := n - w
		if pos := k.x.FirstNonZeroMatch(off, k.classify(&t, k.lanes.Load(buf[off:]))); pos != simd.NoMatch {
			return pos
		}
	}
	return n
}

// rexec returns the index of the last member byte, or -1.
func (k kernel[V, M, L]) rexec(m *Masks, buf []byte) int {
	t := k.load(m)
	n, w := len(buf), k.lanes.Width()
	if n < w {
		return k.x.LastNonZeroMatch(0, k.short(&t, buf, false))
	}

	end := n
	for ; end >= w; end -= w {
		off := end - w
		if pos := k.x.LastNonZeroMatch(off, k.classify(&t, k.lanes.Load(buf[off:]))); pos != simd.NoMatch {
			return pos
		}
	}
	if end > 0 {
		return k.x.LastNonZeroMatch(0, k.classify(&t, k.lanes.Load(buf)))
	}
	return simd.NoMatch
}

// execNot returns the index of the first byte outside the class, or len(buf).
func (k kernel[V, M, L]) execNot(m *Masks, buf []byte) int {
	t := k.load(m)
	n, w := len(buf), k.lanes.Width()
	if n < w {
		if pos := k.x.FirstZeroMatchInverted(0, k.short(&t, buf, true)); pos != simd.NoMatch {
			return pos
		}
		return n
	}

	i := 0
	for ; i+w <= n; i += w {
		if pos := k.x.FirstZeroMatchInverted(i, k.classify(&t, k.lanes.Load(buf[i:]))); pos != simd.NoMatch {
			return pos
		}
	}
	if i < n {
		off := n - w
		if pos := k.x.FirstZeroMatchInverted(off, k.classify(&t, k.lanes.Load(buf[off:]))); pos != simd.NoMatch {
			return pos
		}
	}
	return n
}

// rexecNot returns the index of the last byte outside the class, or -1.
func (k kernel[V, M, L]) rexecNot(m *Masks, buf []byte) int {
	t := k.load(m)
	n, w := len(buf), k.lanes.Width()
	if n < w {
		return k.x.LastZeroMatchInverted(0, k.short(&t, buf, true))
	}

	end := n
	for ; end >= w; end -= w {
		off := end - w
		if pos := k.x.LastZeroMatchInverted(off, k.classify(&t, k.lanes.Load(buf[off:]))); pos != simd.NoMatch {
			return pos
		}
	}
	if end > 0 {
		return k.x.LastZeroMatchInverted(0, k.classify(&t, k.lanes.Load(buf)))
	}
	return simd.NoMatch
}

// Kernels compiled for this build.
var (
	narrow = kernel[simd.Vec128, simd.NativeMask128, simd.Native128]{}
	wide   = kernel[simd.Vec256, uint32, simd.MoveMask256]{}
)
