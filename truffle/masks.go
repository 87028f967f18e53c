// Package truffle implements nibble-table character class acceleration.
//
// A class over all 256 byte values is encoded as two 16-entry tables of 8-bit
// masks. Byte b belongs to the class iff
//
//	Lo[b&0xF] & Hi[b>>4] != 0
//
// The scan kernels apply the tables to a whole vector of bytes at once with
// two shuffle lookups and an AND, then extract the first or last qualifying
// lane. Tables are built once per class and are safe to share between
// goroutines; the kernels allocate nothing and keep no state.
//
// Example:
//
//	var digits [256]bool
//	for b := '0'; b <= '9'; b++ {
//	    digits[b] = true
//	}
//	m, err := truffle.Build(&digits)
//	if err != nil {
//	    // class needs a different acceleration scheme
//	}
//	pos := truffle.Exec(m, []byte("abc123")) // 3
package truffle

import "math/bits"

// Masks is the nibble table pair for one character class.
type Masks struct {
	// Lo is indexed by the low nibble of a byte.
	Lo [16]byte

	// Hi is indexed by the high nibble of a byte.
	Hi [16]byte
}

// WideMasks is the combined form consumed by the 32-lane kernel: Lo in
// bytes 0-15 and Hi in bytes 16-31.
type WideMasks [32]byte

// Matches reports whether b is in the class the tables encode.
func (m *Masks) Matches(b byte) bool {
	return m.Lo[b&0x0f]&m.Hi[b>>4] != 0
}

// Verify reports whether the tables encode exactly the given class.
func (m *Masks) Verify(class *[256]bool) bool {
	for b := 0; b < 256; b++ {
		if m.Matches(byte(b)) != class[b] {
			return false
		}
	}
	return true
}

// Wide returns the combined 32-byte form of the tables.
func (m *Masks) Wide() *WideMasks {
	var w WideMasks
	copy(w[:16], m.Lo[:])
	copy(w[16:], m.Hi[:])
	return &w
}

// Split returns the table pair held in the combined form.
func (w *WideMasks) Split() *Masks {
	var m Masks
	copy(m.Lo[:], w[:16])
	copy(m.Hi[:], w[16:])
	return &m
}

// Planes returns the number of mask bits in use, i.e. the number of
// rectangles the class was decomposed into.
func (m *Masks) Planes() int {
	var lo, hi byte
	for i := range m.Lo {
		lo |= m.Lo[i]
		hi |= m.Hi[i]
	}
	return bits.OnesCount8(lo & hi)
}
