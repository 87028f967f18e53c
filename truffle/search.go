package truffle

import (
	"math/bits"
	"sort"
)

// Limits of the exact cover search. Work is counted in candidate rectangle
// visits and dominance checks.
const (
	maxCandidates = 1 << 14
	searchBudget  = 1 << 19
)

// cell is one member of the 16x16 nibble matrix.
type cell struct {
	row, col uint8
}

// option is a candidate rectangle together with the uncovered cells it
// would cover, per row.
type option struct {
	p    plane
	gain [16]uint16
	n    int
}

// coverSearch is a depth-bounded set cover over the maximal all-member
// rectangles of the matrix.
type coverSearch struct {
	rows   *[16]uint16
	cands  []plane
	byCell [16][16][]int32
	order  []cell
	work   int
	chosen []plane
}

// search looks for a cover of at most MaxPlanes rectangles when the greedy
// cover needs more. Any all-member rectangle grows into a maximal one
// whose column set is an intersection of row patterns and whose rows are
// every row containing those columns, so a smallest cover can be drawn
// from maximal rectangles alone. Branches take the largest gain first, so
// the cover found is small but not necessarily the smallest.
//
// It reports false when no such cover exists, or when the matrix has more
// than maxCandidates maximal rectangles or the search exceeds searchBudget.
func search(rows *[16]uint16) ([]plane, bool) {
	cands, ok := maximal(rows)
	if !ok {
		return nil, false
	}
	s := &coverSearch{rows: rows, cands: cands}
	s.index()

	uncovered := *rows
	if s.fooling(&uncovered, MaxPlanes) > MaxPlanes {
		return nil, false
	}
	if !s.solve(uncovered, MaxPlanes) {
		return nil, false
	}
	return s.chosen, true
}

// maximal returns every maximal all-member rectangle: the closure of the
// distinct non-empty row patterns under intersection, each paired with the
// rows that contain it.
func maximal(rows *[16]uint16) ([]plane, bool) {
	var seen [1 << 10]uint64
	mark := func(c uint16) bool {
		w, b := c>>6, uint64(1)<<(c&63)
		if seen[w]&b != 0 {
			return false
		}
		seen[w] |= b
		return true
	}

	var patterns []uint16
	for _, p := range rows {
		if p != 0 && mark(p) {
			patterns = append(patterns, p)
		}
	}
	closed := append([]uint16(nil), patterns...)
	for i := 0; i < len(closed); i++ {
		for _, p := range patterns {
			if c := closed[i] & p; c != 0 && mark(c) {
				if len(closed) == maxCandidates {
					return nil, false
				}
				closed = append(closed, c)
			}
		}
	}

	planes := make([]plane, len(closed))
	for i, c := range closed {
		var set uint16
		for r, p := range rows {
			if p&c == c {
				set |= 1 << r
			}
		}
		planes[i] = plane{rows: set, cols: c}
	}
	return planes, true
}

// index lists the candidates containing each cell and orders the member
// cells from the fewest containing candidates to the most, so the search
// branches on its most constrained cell first.
func (s *coverSearch) index() {
	for i, p := range s.cands {
		for r := p.rows; r != 0; r &= r - 1 {
			row := bits.TrailingZeros16(r)
			for c := p.cols; c != 0; c &= c - 1 {
				col := bits.TrailingZeros16(c)
				s.byCell[row][col] = append(s.byCell[row][col], int32(i))
			}
		}
	}
	for r, p := range s.rows {
		for c := p; c != 0; c &= c - 1 {
			s.order = append(s.order, cell{row: uint8(r), col: uint8(bits.TrailingZeros16(c))})
		}
	}
	sort.SliceStable(s.order, func(a, b int) bool {
		x, y := s.order[a], s.order[b]
		return len(s.byCell[x.row][x.col]) < len(s.byCell[y.row][y.col])
	})
}

func (s *coverSearch) member(row, col uint8) bool {
	return s.rows[row]&(1<<col) != 0
}

// fooling greedily collects uncovered cells no two of which fit in one
// all-member rectangle. Each needs its own plane, so the count is a lower
// bound on the planes still required. It stops once the count passes limit.
func (s *coverSearch) fooling(uncovered *[16]uint16, limit int) int {
	var set [256]cell
	n := 0
	for _, c := range s.order {
		if uncovered[c.row]&(1<<c.col) == 0 {
			continue
		}
		independent := true
		for _, f := range set[:n] {
			if s.member(c.row, f.col) && s.member(f.row, c.col) {
				independent = false
				break
			}
		}
		if independent {
			set[n] = c
			n++
			if n > limit {
				break
			}
		}
	}
	return n
}

// solve covers every uncovered cell with at most left more rectangles,
// leaving them in s.chosen on success.
func (s *coverSearch) solve(uncovered [16]uint16, left int) bool {
	target, found := cell{}, false
	for _, c := range s.order {
		if uncovered[c.row]&(1<<c.col) != 0 {
			target, found = c, true
			break
		}
	}
	if !found {
		return true
	}
	if left == 0 || s.work > searchBudget {
		return false
	}
	if s.fooling(&uncovered, left) > left {
		return false
	}

	ids := s.byCell[target.row][target.col]
	opts := make([]option, 0, len(ids))
	for _, id := range ids {
		o := option{p: s.cands[id]}
		for r := o.p.rows; r != 0; r &= r - 1 {
			row := bits.TrailingZeros16(r)
			o.gain[row] = uncovered[row] & o.p.cols
			o.n += bits.OnesCount16(o.gain[row])
		}
		opts = append(opts, o)
	}
	s.work += len(opts)
	opts = s.undominated(opts)

	for _, o := range opts {
		next := uncovered
		for r := range next {
			next[r] &^= o.gain[r]
		}
		s.chosen = append(s.chosen, o.p)
		if s.solve(next, left-1) {
			return true
		}
		s.chosen = s.chosen[:len(s.chosen)-1]
	}
	return false
}

// undominated sorts opts by gain and drops every option whose uncovered
// cells are a subset of an earlier one's.
func (s *coverSearch) undominated(opts []option) []option {
	sort.SliceStable(opts, func(a, b int) bool { return opts[a].n > opts[b].n })
	kept := opts[:0]
	for _, o := range opts {
		dominated := false
		for i := range kept {
			s.work++
			if subset(&o.gain, &kept[i].gain) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, o)
		}
	}
	return kept
}

func subset(a, b *[16]uint16) bool {
	for i := range a {
		if a[i]&^b[i] != 0 {
			return false
		}
	}
	return true
}
