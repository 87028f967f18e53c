//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// Native128 is the 16-lane backend compiled for this architecture.
type Native128 = Narrow128

// NativeMask128 is the comparemask type of Native128.
type NativeMask128 = uint64

// CPU feature detection flags set at package initialization.
var (
	hasAVX2 = false

	// hasSSSE3 stands in for "has a 16-byte table lookup"; ASIMD provides tbl.
	hasSSSE3 = cpu.ARM64.HasASIMD

	// hasSVE enables the scalable kernel by default.
	hasSVE = cpu.ARM64.HasSVE
)
