package vectorscan

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtremer/vectorscan/charclass"
)

func diagonal() charclass.Class {
	var c charclass.Class
	for i := 0; i < 16; i++ {
		c = c.With(byte(i * 0x11))
	}
	return c
}

// configs covers every kernel plus the table fallback.
func configs() []Config {
	var out []Config
	for _, w := range []Width{WidthAuto, Width16, Width32} {
		c := DefaultConfig()
		c.Width = w
		out = append(out, c)
	}
	for _, vl := range []int{0, 16, 64, 256} {
		c := DefaultConfig()
		c.Width = WidthScalable
		c.ScalableBytes = vl
		out = append(out, c)
	}
	return out
}

func configName(c Config) string {
	if c.Width == WidthScalable {
		return fmt.Sprintf("scalable%d", c.ScalableBytes)
	}
	return c.Width.String()
}

func TestAcceleratorScenarios(t *testing.T) {
	tests := []struct {
		pattern                        string
		input                          string
		find, rfind, findNot, rfindNot int
	}{
		{`[aeiou]`, "xyzfoo123", 4, 5, 0, 8},
		{`\d`, "abc", -1, -1, 0, 2},
		{`\d`, "", -1, -1, -1, -1},
		{`[a-z]`, "hello", 0, 4, -1, -1},
		{`\s`, "key = value\n", 3, 11, 0, 10},
	}
	for _, config := range configs() {
		for _, tt := range tests {
			t.Run(configName(config)+"/"+tt.pattern, func(t *testing.T) {
				acc, err := CompileWithConfig(tt.pattern, config)
				require.NoError(t, err)
				require.True(t, acc.Encoded())
				buf := []byte(tt.input)
				assert.Equal(t, tt.find, acc.Find(buf), "Find")
				assert.Equal(t, tt.rfind, acc.RFind(buf), "RFind")
				assert.Equal(t, tt.findNot, acc.FindNot(buf), "FindNot")
				assert.Equal(t, tt.rfindNot, acc.RFindNot(buf), "RFindNot")
			})
		}
	}
}

func TestAcceleratorResolvesWidth(t *testing.T) {
	acc, err := New(charclass.Digit)
	require.NoError(t, err)
	assert.NotEqual(t, WidthAuto, acc.Width())

	for _, w := range []Width{Width16, Width32, WidthScalable} {
		config := DefaultConfig()
		config.Width = w
		acc, err := NewWithConfig(charclass.Digit, config)
		require.NoError(t, err)
		assert.Equal(t, w, acc.Width())
	}
}

func TestAcceleratorFallback(t *testing.T) {
	class := diagonal()
	acc, err := New(class)
	require.NoError(t, err)
	assert.False(t, acc.Encoded())
	assert.Nil(t, acc.Masks())

	buf := []byte("abc\x11xyz\x22ghi")
	assert.Equal(t, 3, acc.Find(buf))
	assert.Equal(t, 7, acc.RFind(buf))
	assert.Equal(t, 0, acc.FindNot(buf))
	assert.Equal(t, len(buf)-1, acc.RFindNot(buf))
	assert.Equal(t, 2, acc.Count(buf))

	config := DefaultConfig()
	config.AllowFallback = false
	_, err = NewWithConfig(class, config)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotEncodable))
}

func TestAcceleratorEncodesWithoutFallback(t *testing.T) {
	// nibbles sharing a set bit: no two rows have the same member set
	class := charclass.FromFunc(func(b byte) bool { return (b>>4)&(b&0x0f) != 0 })
	config := DefaultConfig()
	config.AllowFallback = false

	acc, err := NewWithConfig(class, config)
	require.NoError(t, err)
	assert.True(t, acc.Encoded())

	buf := []byte{0x00, 0x12, 0x40, 0x33, 0xf0}
	assert.Equal(t, 3, acc.Find(buf))
	assert.Equal(t, 3, acc.RFind(buf))
	assert.Equal(t, 0, acc.FindNot(buf))
	assert.Equal(t, 4, acc.RFindNot(buf))
}

func TestAcceleratorAgreesWithFallback(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 8))
	for iter := 0; iter < 200; iter++ {
		var class charclass.Class
		for i := 0; i < 1+r.IntN(5); i++ {
			class = class.With(byte(r.IntN(256)))
		}
		table := class.Table()

		buf := make([]byte, r.IntN(200))
		for i := range buf {
			buf[i] = byte(r.IntN(256))
		}
		ref := &tableScanner{table: table}

		for _, config := range configs() {
			acc, err := NewWithConfig(class, config)
			require.NoError(t, err)
			require.Equal(t, ref.first(buf), acc.Find(buf), "%s %v", configName(config), class)
			require.Equal(t, ref.last(buf), acc.RFind(buf), "%s %v", configName(config), class)
			require.Equal(t, ref.firstNot(buf), acc.FindNot(buf), "%s %v", configName(config), class)
			require.Equal(t, ref.lastNot(buf), acc.RFindNot(buf), "%s %v", configName(config), class)
		}
	}
}

func TestFindAtAndRFindBefore(t *testing.T) {
	acc := MustCompile(`[,;]`)
	buf := []byte("a,b;c,d")

	tests := []struct {
		start, want int
	}{
		{0, 1}, {1, 1}, {2, 3}, {4, 5}, {6, -1}, {7, -1}, {-1, -1}, {100, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, acc.FindAt(buf, tt.start), "FindAt(%d)", tt.start)
	}

	before := []struct {
		end, want int
	}{
		{7, 5}, {5, 3}, {4, 3}, {3, 1}, {1, -1}, {0, -1}, {-3, -1}, {100, 5},
	}
	for _, tt := range before {
		assert.Equal(t, tt.want, acc.RFindBefore(buf, tt.end), "RFindBefore(%d)", tt.end)
	}
}

func TestCount(t *testing.T) {
	acc := MustCompile(`[aeiou]`)
	assert.Equal(t, 0, acc.Count(nil))
	assert.Equal(t, 3, acc.Count([]byte("vectorscan")))
	assert.Equal(t, 500, acc.Count(bytes.Repeat([]byte("ab"), 500)))
}

func TestAcceleratorPrefilter(t *testing.T) {
	acc := MustCompile(`\d`)
	pf := acc.Prefilter()
	require.NotNil(t, pf)

	haystack := []byte("id=42")
	pos := pf.Find(haystack, 0)
	assert.Equal(t, 3, pos)
	pf.ConfirmMatch()
	assert.Equal(t, 4, pf.Find(haystack, pos+1))
	assert.Equal(t, -1, pf.Find(haystack, 5))
	assert.False(t, pf.IsComplete())
	assert.Equal(t, 32, pf.HeapBytes())

	fallback, err := New(diagonal())
	require.NoError(t, err)
	assert.Equal(t, 256, fallback.Prefilter().HeapBytes())
}

func TestHitRate(t *testing.T) {
	empty, err := New(charclass.Class{})
	require.NoError(t, err)
	assert.Zero(t, empty.HitRate())

	full, err := New(charclass.Class{}.Negate())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, full.HitRate(), 1e-9)

	common := MustCompile(`[ etaoin]`)
	rare := MustCompile(`[@#$%]`)
	assert.Greater(t, common.HitRate(), rare.HitRate())
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`abc`)
	assert.True(t, errors.Is(err, charclass.ErrUnsupported))

	_, err = Compile(`[`)
	var pe *charclass.ParseError
	assert.True(t, errors.As(err, &pe))

	assert.Panics(t, func() { MustCompile(`[`) })
}

func TestCompileLogs(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := CompileWithConfig(`[0-9]`, config)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "accelerator compiled")
	assert.Contains(t, buf.String(), "encoded=true")

	buf.Reset()
	_, err = NewWithConfig(diagonal(), config)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "falling back to table scan")
	assert.Contains(t, buf.String(), "encoded=false")
}

func TestConcurrentUse(t *testing.T) {
	acc := MustCompile(`[A-Z]`)
	buf := append(bytes.Repeat([]byte("lower case "), 100), 'Q')
	want := len(buf) - 1

	done := make(chan int)
	for g := 0; g < 8; g++ {
		go func() {
			done <- acc.Find(buf)
		}()
	}
	for g := 0; g < 8; g++ {
		assert.Equal(t, want, <-done)
	}
}

func BenchmarkFind(b *testing.B) {
	buf := bytes.Repeat([]byte("the quick brown fox "), 4096)
	for _, config := range configs() {
		acc, err := CompileWithConfig(`[0-9]`, config)
		require.NoError(b, err)
		b.Run(configName(config), func(b *testing.B) {
			b.SetBytes(int64(len(buf)))
			for i := 0; i < b.N; i++ {
				acc.Find(buf)
			}
		})
	}

	fallback, err := New(diagonal())
	require.NoError(b, err)
	b.Run("table", func(b *testing.B) {
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			fallback.Find(buf)
		}
	})
}
