//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// Native128 is the 16-lane backend compiled for this architecture.
type Native128 = MoveMask128

// NativeMask128 is the comparemask type of Native128.
type NativeMask128 = uint16

// CPU feature detection flags set at package initialization.
var (
	// hasAVX2 enables the 32-lane kernel by default.
	hasAVX2 = cpu.X86.HasAVX2

	// hasSSSE3 gates pshufb; every amd64 CPU Go still supports has it.
	hasSSSE3 = cpu.X86.HasSSSE3

	hasSVE = false
)
