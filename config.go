package vectorscan

import (
	"fmt"
	"log/slog"

	"github.com/mtremer/vectorscan/simd"
)

// Width selects the scan kernel an Accelerator runs.
type Width int

const (
	// WidthAuto picks the widest kernel the CPU runs natively.
	WidthAuto Width = iota

	// Width16 scans 16-byte blocks (SSSE3 or NEON shape).
	Width16

	// Width32 scans 32-byte blocks (AVX2 shape).
	Width32

	// WidthScalable scans blocks of Config.ScalableBytes under predicates
	// (SVE shape).
	WidthScalable
)

// String returns the width name.
func (w Width) String() string {
	switch w {
	case WidthAuto:
		return "auto"
	case Width16:
		return "16"
	case Width32:
		return "32"
	case WidthScalable:
		return "scalable"
	default:
		return fmt.Sprintf("Width(%d)", int(w))
	}
}

// Config controls how an Accelerator is built.
//
// Example:
//
//	config := vectorscan.DefaultConfig()
//	config.Width = vectorscan.WidthScalable
//	config.ScalableBytes = 64
//	acc, err := vectorscan.CompileWithConfig(`[0-9a-f]`, config)
type Config struct {
	// Width selects the kernel.
	// Default: WidthAuto
	Width Width

	// ScalableBytes is the vector length used by WidthScalable: a multiple
	// of 16 between 16 and 256, or 0 for the platform default.
	// Default: 0
	ScalableBytes int

	// AllowFallback lets classes without a nibble encoding be scanned with
	// a scalar table lookup. When false such classes fail to compile with
	// ErrNotEncodable.
	// Default: true
	AllowFallback bool

	// Logger receives compile-time diagnostics at debug level. Scans never
	// log. nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the automatic width with fallback enabled.
func DefaultConfig() Config {
	return Config{
		Width:         WidthAuto,
		AllowFallback: true,
	}
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	if c.Width < WidthAuto || c.Width > WidthScalable {
		return &ConfigError{
			Field:   "Width",
			Message: "must be WidthAuto, Width16, Width32 or WidthScalable",
		}
	}
	if c.ScalableBytes != 0 {
		if _, err := simd.NewScalable(c.ScalableBytes); err != nil {
			return &ConfigError{
				Field:   "ScalableBytes",
				Message: "must be 0 or a multiple of 16 between 16 and 256",
			}
		}
	}
	return nil
}

// resolve replaces the automatic settings with concrete ones.
func (c Config) resolve(f simd.Features) Config {
	if c.Width == WidthAuto {
		switch {
		case f.Wide:
			c.Width = Width32
		case f.Scalable:
			c.Width = WidthScalable
		default:
			c.Width = Width16
		}
	}
	if c.ScalableBytes == 0 {
		c.ScalableBytes = simd.DefaultScalableBytes()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "vectorscan: invalid config: " + e.Field + ": " + e.Message
}
