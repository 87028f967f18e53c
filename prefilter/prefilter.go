// Package prefilter provides fast candidate filtering for a matcher whose
// every match must begin with a byte from a known character class.
//
// A prefilter skips the haystack positions that cannot start a match, so the
// caller only runs its full automaton where a class member occurs. The
// package picks a strategy from the shape of the class:
//   - Empty class → nil (nothing can match)
//   - Single byte → bytePrefilter (bytes.IndexByte)
//   - Nibble-encodable class → ClassPrefilter (truffle kernel)
//   - Anything else → tablePrefilter (scalar table lookup)
//
// Example usage:
//
//	c := charclass.MustParse(`[0-9]`)
//	pf := prefilter.New(c)
//	pos := pf.Find([]byte("port 8080"), 0)
//	// pos == 5
package prefilter

import (
	"bytes"

	"github.com/mtremer/vectorscan/charclass"
	"github.com/mtremer/vectorscan/simd"
	"github.com/mtremer/vectorscan/truffle"
)

// Prefilter finds candidate match positions before the full matcher runs.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1 if there is none. start must be in [0, len(haystack)].
	//
	//	pos := pf.Find(haystack, 0)
	//	for pos != -1 {
	//	    if fullMatchAt(haystack, pos) {
	//	        return pos
	//	    }
	//	    pos = pf.Find(haystack, pos+1)
	//	}
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is itself a match, so the
	// caller may skip verification. This is the case when the pattern is
	// exactly one byte from the class.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete is true, else 0.
	LiteralLen() int

	// HeapBytes returns the heap memory held by the prefilter.
	HeapBytes() int
}

// New returns the prefilter best suited to c, or nil if c is empty.
// Candidates are not complete matches.
func New(c charclass.Class) Prefilter {
	return selectPrefilter(c, false)
}

// NewComplete is like New but marks every candidate as a complete one-byte
// match. Use it when the pattern is exactly the class.
func NewComplete(c charclass.Class) Prefilter {
	return selectPrefilter(c, true)
}

func selectPrefilter(c charclass.Class, complete bool) Prefilter {
	switch c.Count() {
	case 0:
		return nil
	case 1:
		return &bytePrefilter{needle: c.Ranges()[0][0], complete: complete}
	}

	table := c.Table()
	if m, err := truffle.Build(&table); err == nil {
		return &ClassPrefilter{masks: m, complete: complete}
	}
	return &tablePrefilter{table: table, complete: complete}
}

// literalLen is the LiteralLen of every class prefilter.
func literalLen(complete bool) int {
	if complete {
		return 1
	}
	return 0
}

// bytePrefilter searches for a single byte.
type bytePrefilter struct {
	needle   byte
	complete bool
}

// Find implements Prefilter.Find using bytes.IndexByte.
func (p *bytePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *bytePrefilter) IsComplete() bool { return p.complete }
func (p *bytePrefilter) LiteralLen() int  { return literalLen(p.complete) }
func (p *bytePrefilter) HeapBytes() int   { return 0 }

// tablePrefilter scans with a 256-entry lookup table. It serves the classes
// the nibble tables cannot encode.
type tablePrefilter struct {
	table    [256]bool
	complete bool
}

// Find implements Prefilter.Find using simd.IndexInTable.
func (p *tablePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.IndexInTable(haystack[start:], &p.table)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *tablePrefilter) IsComplete() bool { return p.complete }
func (p *tablePrefilter) LiteralLen() int  { return literalLen(p.complete) }
func (p *tablePrefilter) HeapBytes() int   { return len(p.table) }
