//go:build !amd64 && !arm64

package simd

// Native128 is the 16-lane backend compiled for this architecture.
type Native128 = MoveMask128

// NativeMask128 is the comparemask type of Native128.
type NativeMask128 = uint16

var (
	hasAVX2  = false
	hasSSSE3 = false
	hasSVE   = false
)
