package simd

// IndexInTable returns the index of the first byte of haystack with
// table[byte] set, or -1.
//
// This is the scalar path for classes the nibble tables cannot encode and
// the correctness baseline the vector kernels are tested against.
func IndexInTable(haystack []byte, table *[256]bool) int {
	for i, b := range haystack {
		if table[b] {
			return i
		}
	}
	return -1
}

// IndexNotInTable returns the index of the first byte of haystack with
// table[byte] clear, or -1.
func IndexNotInTable(haystack []byte, table *[256]bool) int {
	for i, b := range haystack {
		if !table[b] {
			return i
		}
	}
	return -1
}

// LastIndexInTable returns the index of the last byte of haystack with
// table[byte] set, or -1.
func LastIndexInTable(haystack []byte, table *[256]bool) int {
	for i := len(haystack) - 1; i >= 0; i-- {
		if table[haystack[i]] {
			return i
		}
	}
	return -1
}

// LastIndexNotInTable returns the index of the last byte of haystack with
// table[byte] clear, or -1.
func LastIndexNotInTable(haystack []byte, table *[256]bool) int {
	for i := len(haystack) - 1; i >= 0; i-- {
		if !table[haystack[i]] {
			return i
		}
	}
	return -1
}
