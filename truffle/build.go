package truffle

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"sort"

	"github.com/mtremer/vectorscan/internal/assert"
)

// MaxPlanes is the number of independent bits available per table entry.
const MaxPlanes = 8

// ErrNotEncodable indicates the class cannot be expressed as a nibble table
// pair with MaxPlanes bits. Callers fall back to another scan strategy.
var ErrNotEncodable = errors.New("class is not nibble-encodable")

// BuildError reports why a class could not be encoded.
type BuildError struct {
	// Planes is the smallest plane count the builder reached.
	Planes int
	Err    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("truffle: %v (needs %d planes, have %d)", e.Err, e.Planes, MaxPlanes)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Build encodes the class given as a 256-entry membership table.
func Build(class *[256]bool) (*Masks, error) {
	return BuildFunc(func(b byte) bool { return class[b] })
}

// BuildFunc encodes the class given as a membership function. member is
// called exactly once for each of the 256 byte values.
//
// It fails with ErrNotEncodable when no cover of MaxPlanes rectangles is
// found. The search is exhaustive for classes with at most 16384 maximal
// rectangles that finish within its work budget; harder classes are
// rejected after a few milliseconds.
func BuildFunc(member func(byte) bool) (*Masks, error) {
	m, _, err := build(member)
	return m, err
}

// Builder encodes classes and reports how it did so to a logger.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder returns a Builder logging to logger; nil discards.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{logger: logger}
}

// Build encodes class, logging the chosen decomposition at debug level.
func (b *Builder) Build(class *[256]bool) (*Masks, error) {
	m, st, err := build(func(c byte) bool { return class[c] })
	if err != nil {
		b.logger.Debug("truffle: class not encodable",
			slog.Int("planes", st.planes), slog.Int("members", st.members))
		return nil, err
	}
	b.logger.Debug("truffle: class encoded",
		slog.Int("planes", st.planes),
		slog.Int("members", st.members),
		slog.Bool("transposed", st.transposed),
		slog.Bool("searched", st.searched))
	return m, nil
}

// buildStats describes one encoding attempt.
type buildStats struct {
	planes     int
	members    int
	transposed bool
	searched   bool
}

// plane is one all-member rectangle of the 16x16 nibble matrix.
type plane struct {
	rows uint16 // high nibbles
	cols uint16 // low nibbles
}

// build views the class as a 16x16 matrix, rows indexed by high nibble and
// columns by low nibble, and covers its member cells with at most MaxPlanes
// all-member rectangles. Each rectangle becomes one bit of the tables. The
// greedy cover is tried first in both orientations; when it needs too many
// planes, search looks for a smaller cover.
func build(member func(byte) bool) (*Masks, buildStats, error) {
	var rows, cols [16]uint16
	members := 0
	for b := 0; b < 256; b++ {
		if member(byte(b)) {
			hi, lo := b>>4, b&0x0f
			rows[hi] |= 1 << lo
			cols[lo] |= 1 << hi
			members++
		}
	}

	byRow := cover(&rows)
	byCol := cover(&cols)

	st := buildStats{members: members, planes: len(byRow)}
	planes := byRow
	if len(byCol) < len(byRow) {
		// covering columns yields rectangles with rows and columns swapped
		planes = make([]plane, len(byCol))
		for i, p := range byCol {
			planes[i] = plane{rows: p.cols, cols: p.rows}
		}
		st.planes = len(planes)
		st.transposed = true
	}

	if len(planes) > MaxPlanes {
		found, ok := search(&rows)
		if !ok {
			return nil, st, &BuildError{Planes: len(planes), Err: ErrNotEncodable}
		}
		planes = found
		st.planes = len(found)
		st.transposed = false
		st.searched = true
	}

	m := &Masks{}
	for k, p := range planes {
		bit := byte(1) << k
		for i := 0; i < 16; i++ {
			if p.cols&(1<<i) != 0 {
				m.Lo[i] |= bit
			}
			if p.rows&(1<<i) != 0 {
				m.Hi[i] |= bit
			}
		}
	}

	if assert.Enabled {
		var class [256]bool
		for b := range class {
			class[b] = rows[b>>4]&(1<<(b&0x0f)) != 0
		}
		assert.That(m.Verify(&class), "nibble tables do not reproduce the class")
	}
	return m, st, nil
}

// cover greedily decomposes the member cells of a 16x16 matrix into
// rectangles. Seeds are visited from the fullest row down; each seed that
// still has uncovered cells takes its full member set as the columns and
// extends to every row whose member set contains those columns. Every
// rectangle therefore lies inside the class, and each step covers at least
// one whole row.
func cover(rows *[16]uint16) []plane {
	var remaining [16]uint16
	copy(remaining[:], rows[:])

	order := make([]int, 16)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bits.OnesCount16(rows[order[a]]) > bits.OnesCount16(rows[order[b]])
	})

	var planes []plane
	for _, seed := range order {
		if remaining[seed] == 0 {
			continue
		}
		cols := rows[seed]
		var set uint16
		for r := 0; r < 16; r++ {
			if rows[r]&cols == cols {
				set |= 1 << r
				remaining[r] &^= cols
			}
		}
		planes = append(planes, plane{rows: set, cols: cols})
	}
	return planes
}
