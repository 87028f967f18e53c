// Package assert provides precondition checks that compile to nothing in
// release builds.
//
// Build with -tags vectorscan_debug to turn them on. The scan kernels call
// That on their hot paths, so the disabled form must stay a constant-false
// branch the compiler can drop.
package assert

// That panics with msg when Enabled and cond is false.
func That(cond bool, msg string) {
	if Enabled && !cond {
		panic("vectorscan: assertion failed: " + msg)
	}
}
