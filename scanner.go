package vectorscan

import (
	"github.com/mtremer/vectorscan/simd"
	"github.com/mtremer/vectorscan/truffle"
)

// scanner is one scan strategy. Every method returns -1 when nothing
// qualifies.
type scanner interface {
	first(buf []byte) int
	last(buf []byte) int
	firstNot(buf []byte) int
	lastNot(buf []byte) int
}

// newKernelScanner returns the kernel for a resolved config.
func newKernelScanner(config Config, m *truffle.Masks) (scanner, error) {
	switch config.Width {
	case Width32:
		return &wideScanner{masks: m.Wide()}, nil
	case WidthScalable:
		s, err := simd.NewScalable(config.ScalableBytes)
		if err != nil {
			return nil, err
		}
		return &scalableScanner{s: s, masks: m}, nil
	default:
		return &narrowScanner{masks: m}, nil
	}
}

// notFound maps the forward kernels' end-of-buffer result to -1.
func notFound(i, n int) int {
	if i == n {
		return -1
	}
	return i
}

type narrowScanner struct {
	masks *truffle.Masks
}

func (s *narrowScanner) first(buf []byte) int {
	return notFound(truffle.Exec(s.masks, buf), len(buf))
}

func (s *narrowScanner) last(buf []byte) int {
	return truffle.RExec(s.masks, buf)
}

func (s *narrowScanner) firstNot(buf []byte) int {
	return notFound(truffle.ExecNot(s.masks, buf), len(buf))
}

func (s *narrowScanner) lastNot(buf []byte) int {
	return truffle.RExecNot(s.masks, buf)
}

type wideScanner struct {
	masks *truffle.WideMasks
}

func (s *wideScanner) first(buf []byte) int {
	return notFound(truffle.ExecWide(s.masks, buf), len(buf))
}

func (s *wideScanner) last(buf []byte) int {
	return truffle.RExecWide(s.masks, buf)
}

func (s *wideScanner) firstNot(buf []byte) int {
	return notFound(truffle.ExecNotWide(s.masks, buf), len(buf))
}

func (s *wideScanner) lastNot(buf []byte) int {
	return truffle.RExecNotWide(s.masks, buf)
}

type scalableScanner struct {
	s     simd.Scalable
	masks *truffle.Masks
}

func (s *scalableScanner) first(buf []byte) int {
	return notFound(truffle.ExecScalable(s.s, s.masks, buf), len(buf))
}

func (s *scalableScanner) last(buf []byte) int {
	return truffle.RExecScalable(s.s, s.masks, buf)
}

func (s *scalableScanner) firstNot(buf []byte) int {
	return notFound(truffle.ExecNotScalable(s.s, s.masks, buf), len(buf))
}

func (s *scalableScanner) lastNot(buf []byte) int {
	return truffle.RExecNotScalable(s.s, s.masks, buf)
}

// tableScanner serves classes without a nibble encoding.
type tableScanner struct {
	table [256]bool
}

func (s *tableScanner) first(buf []byte) int {
	return simd.IndexInTable(buf, &s.table)
}

func (s *tableScanner) last(buf []byte) int {
	return simd.LastIndexInTable(buf, &s.table)
}

func (s *tableScanner) firstNot(buf []byte) int {
	return simd.IndexNotInTable(buf, &s.table)
}

func (s *tableScanner) lastNot(buf []byte) int {
	return simd.LastIndexNotInTable(buf, &s.table)
}
