//go:build !vectorscan_debug

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = false
