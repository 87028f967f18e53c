// Package charclass provides a byte-valued character class: a set over the
// 256 possible byte values.
//
// A Class is a small comparable value. Operations return new classes and
// never modify the receiver, so classes can be shared freely.
package charclass

import (
	"fmt"
	"math/bits"
	"strings"
)

// Class is a set of byte values.
type Class struct {
	bits [4]uint64
}

// Of returns the class holding exactly the given bytes.
func Of(members ...byte) Class {
	var c Class
	for _, b := range members {
		c.bits[b>>6] |= 1 << (b & 63)
	}
	return c
}

// Range returns the class holding every byte in [lo, hi].
func Range(lo, hi byte) Class {
	var c Class
	for b := int(lo); b <= int(hi); b++ {
		c.bits[b>>6] |= 1 << (uint(b) & 63)
	}
	return c
}

// FromTable returns the class whose members are the true entries of t.
func FromTable(t *[256]bool) Class {
	var c Class
	for b, in := range t {
		if in {
			c.bits[b>>6] |= 1 << (uint(b) & 63)
		}
	}
	return c
}

// FromFunc returns the class of bytes for which member reports true.
func FromFunc(member func(byte) bool) Class {
	var c Class
	for b := 0; b < 256; b++ {
		if member(byte(b)) {
			c.bits[b>>6] |= 1 << (uint(b) & 63)
		}
	}
	return c
}

// Contains reports whether b is a member.
func (c Class) Contains(b byte) bool {
	return c.bits[b>>6]&(1<<(b&63)) != 0
}

// With returns c plus the given bytes.
func (c Class) With(members ...byte) Class {
	return c.Union(Of(members...))
}

// Union returns the bytes in c or d.
func (c Class) Union(d Class) Class {
	for i := range c.bits {
		c.bits[i] |= d.bits[i]
	}
	return c
}

// Intersect returns the bytes in both c and d.
func (c Class) Intersect(d Class) Class {
	for i := range c.bits {
		c.bits[i] &= d.bits[i]
	}
	return c
}

// Negate returns the complement of c.
func (c Class) Negate() Class {
	for i := range c.bits {
		c.bits[i] = ^c.bits[i]
	}
	return c
}

// Count returns the number of members.
func (c Class) Count() int {
	n := 0
	for _, w := range c.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether c has no members.
func (c Class) IsEmpty() bool {
	return c == Class{}
}

// IsFull reports whether every byte is a member.
func (c Class) IsFull() bool {
	return c.Negate().IsEmpty()
}

// Table returns the 256-entry membership table of c.
func (c Class) Table() [256]bool {
	var t [256]bool
	for b := range t {
		t[b] = c.Contains(byte(b))
	}
	return t
}

// Ranges returns the members as sorted, non-adjacent inclusive ranges.
func (c Class) Ranges() [][2]byte {
	var ranges [][2]byte
	for b := 0; b < 256; {
		if !c.Contains(byte(b)) {
			b++
			continue
		}
		lo := b
		for b < 256 && c.Contains(byte(b)) {
			b++
		}
		ranges = append(ranges, [2]byte{byte(lo), byte(b - 1)})
	}
	return ranges
}

// String formats c in bracket syntax, e.g. [0-9A-Fa-f].
func (c Class) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range c.Ranges() {
		writeByte(&sb, r[0])
		switch {
		case r[1] == r[0]:
		case r[1] == r[0]+1:
			writeByte(&sb, r[1])
		default:
			sb.WriteByte('-')
			writeByte(&sb, r[1])
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeByte(sb *strings.Builder, b byte) {
	switch {
	case b == '\\' || b == ']' || b == '[' || b == '-' || b == '^':
		sb.WriteByte('\\')
		sb.WriteByte(b)
	case b >= 0x20 && b < 0x7f:
		sb.WriteByte(b)
	default:
		fmt.Fprintf(sb, `\x%02x`, b)
	}
}

// Predefined classes.
var (
	// Digit is [0-9].
	Digit = Range('0', '9')

	// Word is [0-9A-Za-z_].
	Word = Range('0', '9').Union(Range('A', 'Z')).Union(Range('a', 'z')).With('_')

	// Space is [\t\n\f\r ].
	Space = Of('\t', '\n', '\f', '\r', ' ')

	// Vowels is [AEIOUaeiou].
	Vowels = Of('a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U')

	// NonASCII is [\x80-\xff].
	NonASCII = Range(0x80, 0xff)
)
