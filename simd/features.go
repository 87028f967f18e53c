package simd

// Features reports the CPU capabilities that decide which kernel width a
// caller should prefer. Detection runs once at package initialization; the
// scan paths themselves never consult these flags.
type Features struct {
	// Shuffle is true when the CPU has a 16-entry byte table lookup
	// (SSSE3 pshufb or NEON tbl).
	Shuffle bool

	// Wide is true when 32-byte lanes are native (AVX2).
	Wide bool

	// Scalable is true when runtime-length vectors are native (SVE).
	Scalable bool
}

// DetectFeatures returns the capabilities of the running CPU.
func DetectFeatures() Features {
	return Features{
		Shuffle:  hasSSSE3,
		Wide:     hasAVX2,
		Scalable: hasSVE,
	}
}

// DefaultScalableBytes returns the vector length, in bytes, used for the
// scalable kernel when the caller does not choose one. 256-bit SVE is the
// common implementation width; 128 bits is the architectural minimum.
func DefaultScalableBytes() int {
	if hasSVE {
		return 32
	}
	return MinScalableBytes
}
