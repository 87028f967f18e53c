package truffle

import "github.com/mtremer/vectorscan/simd"

// scalableBlock holds the per-call working registers of the scalable
// kernel.
type scalableBlock struct {
	v, lo, hi, a, b simd.ScalableVec
}

// classify leaves a non-zero value in every active lane of pg whose byte is
// in the class and zero in every other lane.
func (r *scalableBlock) classify(s simd.Scalable, m *Masks, pg simd.Pred, src []byte) {
	s.Load(pg, src, &r.v)
	s.Nibbles(&r.v, &r.lo, &r.hi)
	s.ShuffleNibble(&m.Lo, &r.lo, &r.a)
	s.ShuffleNibble(&m.Hi, &r.hi, &r.b)
	s.AndZ(pg, &r.a, &r.b, &r.v)
}

// outside replaces the classification with 0xFF in every active lane of pg
// that is not a member and zero elsewhere.
func (r *scalableBlock) outside(s simd.Scalable, pg simd.Pred) {
	members := s.CmpNE0(pg, &r.v)
	s.DupZ(simd.PAndNot(pg, members), 0xff, &r.v)
}

// ExecScalable returns the index of the first byte of buf in the class, or
// len(buf). The loop is governed by WhileLT predicates, so the final block
// needs no separate tail handling. s must come from simd.NewScalable.
func ExecScalable(s simd.Scalable, m *Masks, buf []byte) int {
	var r scalableBlock
	vl, n := s.Len(), len(buf)
	for i := 0; i < n; i += vl {
		r.classify(s, m, s.WhileLT(i, n), buf[i:])
		if idx := s.FirstNonZero(vl, &r.v); idx < uint64(vl) {
			return i + int(idx)
		}
	}
	return n
}

// RExecScalable returns the index of the last byte of buf in the class, or -1.
func RExecScalable(s simd.Scalable, m *Masks, buf []byte) int {
	var r scalableBlock
	vl, n := s.Len(), len(buf)
	if n == 0 {
		return simd.NoMatch
	}
	for i := (n - 1) / vl * vl; i >= 0; i -= vl {
		r.classify(s, m, s.WhileLT(i, n), buf[i:])
		if idx := s.LastNonZero(vl, &r.v); idx < uint64(vl) {
			return i + int(idx)
		}
	}
	return simd.NoMatch
}

// ExecNotScalable returns the index of the first byte of buf outside the
// class, or len(buf).
func ExecNotScalable(s simd.Scalable, m *Masks, buf []byte) int {
	var r scalableBlock
	vl, n := s.Len(), len(buf)
	for i := 0; i < n; i += vl {
		pg := s.WhileLT(i, n)
		r.classify(s, m, pg, buf[i:])
		r.outside(s, pg)
		if idx := s.FirstNonZero(vl, &r.v); idx < uint64(vl) {
			return i + int(idx)
		}
	}
	return n
}

// RExecNotScalable returns the index of the last byte of buf outside the
// class, or -1.
func RExecNotScalable(s simd.Scalable, m *Masks, buf []byte) int {
	var r scalableBlock
	vl, n := s.Len(), len(buf)
	if n == 0 {
		return simd.NoMatch
	}
	for i := (n - 1) / vl * vl; i >= 0; i -= vl {
		pg := s.WhileLT(i, n)
		r.classify(s, m, pg, buf[i:])
		r.outside(s, pg)
		if idx := s.LastNonZero(vl, &r.v); idx < uint64(vl) {
			return i + int(idx)
		}
	}
	return simd.NoMatch
}
