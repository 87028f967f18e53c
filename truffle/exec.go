package truffle

// Exec returns the index of the first byte of buf in the class, or len(buf)
// if there is none. It runs on the platform's 16-lane backend.
func Exec(m *Masks, buf []byte) int {
	return narrow.exec(m, buf)
}

// RExec returns the index of the last byte of buf in the class, or -1.
func RExec(m *Masks, buf []byte) int {
	return narrow.rexec(m, buf)
}

// ExecNot returns the index of the first byte of buf outside the class, or
// len(buf) if every byte is a member.
func ExecNot(m *Masks, buf []byte) int {
	return narrow.execNot(m, buf)
}

// RExecNot returns the index of the last byte of buf outside the class, or -1.
func RExecNot(m *Masks, buf []byte) int {
	return narrow.rexecNot(m, buf)
}

// ExecWide is Exec over 32-byte blocks.
func ExecWide(w *WideMasks, buf []byte) int {
	return wide.exec(w.Split(), buf)
}

// RExecWide is RExec over 32-byte blocks.
func RExecWide(w *WideMasks, buf []byte) int {
	return wide.rexec(w.Split(), buf)
}

// ExecNotWide is ExecNot over 32-byte blocks.
func ExecNotWide(w *WideMasks, buf []byte) int {
	return wide.execNot(w.Split(), buf)
}

// RExecNotWide is RExecNot over 32-byte blocks.
func RExecNotWide(w *WideMasks, buf []byte) int {
	return wide.rexecNot(w.Split(), buf)
}
