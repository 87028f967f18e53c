// Package vectorscan finds the first or last byte of a buffer that belongs
// to (or falls outside) a character class, scanning a whole vector of bytes
// per step.
//
// A class is compiled once into an Accelerator, which encodes it as a pair of
// nibble lookup tables and picks a scan kernel for the running CPU:
//   - 16-byte blocks (SSSE3 / NEON shape)
//   - 32-byte blocks (AVX2 shape)
//   - runtime-length blocks under lane predicates (SVE shape)
//
// Classes without a nibble-table encoding fall back to a scalar table scan,
// so every class is accepted unless Config.AllowFallback is cleared.
//
// Basic usage:
//
//	acc, err := vectorscan.Compile(`[aeiou]`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	acc.Find([]byte("xyzfoo123"))  // 4
//	acc.RFind([]byte("xyzfoo123")) // 5
//
// An Accelerator is immutable and safe for concurrent use.
package vectorscan

import (
	"errors"
	"log/slog"

	"github.com/mtremer/vectorscan/charclass"
	"github.com/mtremer/vectorscan/prefilter"
	"github.com/mtremer/vectorscan/simd"
	"github.com/mtremer/vectorscan/truffle"
)

// Accelerator scans buffers for one compiled character class.
type Accelerator struct {
	class   charclass.Class
	width   Width
	masks   *truffle.Masks
	scan    scanner
	hitRate float64
}

// Compile parses a class pattern such as `[a-z_]` or `\d` (see
// charclass.Parse) and compiles it with DefaultConfig.
func Compile(pattern string) (*Accelerator, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig is Compile with a custom configuration.
func CompileWithConfig(pattern string, config Config) (*Accelerator, error) {
	c, err := charclass.Parse(pattern)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(c, config)
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Accelerator {
	a, err := Compile(pattern)
	if err != nil {
		panic("vectorscan: Compile(`" + pattern + "`): " + err.Error())
	}
	return a
}

// New compiles c with DefaultConfig.
func New(c charclass.Class) (*Accelerator, error) {
	return NewWithConfig(c, DefaultConfig())
}

// NewWithConfig compiles c with a custom configuration.
func NewWithConfig(c charclass.Class, config Config) (*Accelerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.resolve(simd.DetectFeatures())

	table := c.Table()
	a := &Accelerator{
		class:   c,
		width:   config.Width,
		hitRate: float64(simd.TableFrequency(&table)) / float64(simd.MaxTableFrequency),
	}

	m, err := truffle.NewBuilder(config.Logger).Build(&table)
	switch {
	case err == nil:
		a.masks = m
		a.scan, err = newKernelScanner(config, m)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, truffle.ErrNotEncodable) && config.AllowFallback:
		config.Logger.Debug("vectorscan: falling back to table scan",
			slog.String("class", c.String()), slog.Any("reason", err))
		a.scan = &tableScanner{table: table}
	default:
		return nil, err
	}

	config.Logger.Debug("vectorscan: accelerator compiled",
		slog.String("class", c.String()),
		slog.Int("members", c.Count()),
		slog.String("width", a.Width().String()),
		slog.Bool("encoded", a.Encoded()),
		slog.Float64("hit_rate", a.hitRate))
	return a, nil
}

// Class returns the compiled class.
func (a *Accelerator) Class() charclass.Class {
	return a.class
}

// Width returns the kernel width in use. It is never WidthAuto.
func (a *Accelerator) Width() Width {
	return a.width
}

// Encoded reports whether the class runs on a vector kernel rather than the
// table fallback.
func (a *Accelerator) Encoded() bool {
	return a.masks != nil
}

// Masks returns the nibble tables, or nil when the class fell back.
func (a *Accelerator) Masks() *truffle.Masks {
	return a.masks
}

// HitRate estimates the fraction of bytes in typical text that belong to the
// class, from 0 (never seen) to 1 (every byte).
func (a *Accelerator) HitRate() float64 {
	return a.hitRate
}

// Find returns the index of the first member of buf, or -1.
func (a *Accelerator) Find(buf []byte) int {
	return a.scan.first(buf)
}

// RFind returns the index of the last member of buf, or -1.
func (a *Accelerator) RFind(buf []byte) int {
	return a.scan.last(buf)
}

// FindNot returns the index of the first byte of buf outside the class, or -1.
func (a *Accelerator) FindNot(buf []byte) int {
	return a.scan.firstNot(buf)
}

// RFindNot returns the index of the last byte of buf outside the class, or -1.
func (a *Accelerator) RFindNot(buf []byte) int {
	return a.scan.lastNot(buf)
}

// FindAt returns the index of the first member of buf at or after start, or
// -1. Out of range starts find nothing.
func (a *Accelerator) FindAt(buf []byte, start int) int {
	if start < 0 || start >= len(buf) {
		return -1
	}
	if i := a.scan.first(buf[start:]); i >= 0 {
		return start + i
	}
	return -1
}

// RFindBefore returns the index of the last member of buf before end, or -1.
// end is clamped to len(buf).
func (a *Accelerator) RFindBefore(buf []byte, end int) int {
	if end <= 0 {
		return -1
	}
	return a.scan.last(buf[:min(end, len(buf))])
}

// Count returns the number of members in buf.
func (a *Accelerator) Count(buf []byte) int {
	n := 0
	for i := a.FindAt(buf, 0); i >= 0; i = a.FindAt(buf, i+1) {
		n++
	}
	return n
}

// Prefilter returns the accelerator as a candidate filter for a matcher
// whose matches start with a class member, wrapped in an effectiveness
// tracker.
func (a *Accelerator) Prefilter() *prefilter.Tracker {
	return prefilter.NewTracker(&accelPrefilter{a: a})
}

// accelPrefilter adapts an Accelerator to prefilter.Prefilter.
type accelPrefilter struct {
	a *Accelerator
}

func (p *accelPrefilter) Find(haystack []byte, start int) int {
	return p.a.FindAt(haystack, start)
}

func (p *accelPrefilter) IsComplete() bool { return false }
func (p *accelPrefilter) LiteralLen() int  { return 0 }

func (p *accelPrefilter) HeapBytes() int {
	if p.a.masks != nil {
		return len(p.a.masks.Lo) + len(p.a.masks.Hi)
	}
	return 256
}
