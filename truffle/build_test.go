package truffle

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classOf(members string) *[256]bool {
	var c [256]bool
	for i := 0; i < len(members); i++ {
		c[members[i]] = true
	}
	return &c
}

func classRange(lo, hi int) *[256]bool {
	var c [256]bool
	for b := lo; b <= hi; b++ {
		c[b] = true
	}
	return &c
}

func diagonal() *[256]bool {
	var c [256]bool
	for i := 0; i < 16; i++ {
		c[i*0x11] = true
	}
	return &c
}

func TestBuildRoundTrip(t *testing.T) {
	word := classRange('a', 'z')
	for b := 'A'; b <= 'Z'; b++ {
		word[b] = true
	}
	for b := '0'; b <= '9'; b++ {
		word[b] = true
	}
	word['_'] = true

	tests := []struct {
		name  string
		class *[256]bool
	}{
		{"empty", &[256]bool{}},
		{"full", classRange(0, 255)},
		{"single", classOf("x")},
		{"nul", classOf("\x00")},
		{"high byte", classOf("\xff")},
		{"digits", classRange('0', '9')},
		{"vowels", classOf("aeiouAEIOU")},
		{"hex", classOf("0123456789abcdefABCDEF")},
		{"space", classOf(" \t\n\r\f")},
		{"word", word},
		{"non-ascii", classRange(0x80, 0xff)},
		{"punctuation", classOf("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.class)
			require.NoError(t, err)
			assert.True(t, m.Verify(tt.class), "tables do not reproduce the class")
			assert.LessOrEqual(t, m.Planes(), MaxPlanes)
			for b := 0; b < 256; b++ {
				require.Equal(t, tt.class[b], m.Lo[b&0xf]&m.Hi[b>>4] != 0, "byte %#02x", b)
			}
		})
	}
}

func TestBuildRejectsDiagonal(t *testing.T) {
	m, err := Build(diagonal())
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrNotEncodable))

	var be *BuildError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 16, be.Planes)
	assert.Contains(t, be.Error(), "needs 16 planes")
}

func TestBuildPlaneCounts(t *testing.T) {
	tests := []struct {
		name  string
		class *[256]bool
		want  int
	}{
		{"empty", &[256]bool{}, 0},
		{"full", classRange(0, 255), 1},
		{"single", classOf("a"), 1},
		{"digits", classRange('0', '9'), 1},
		{"two rows same columns", classOf("AQ"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.class)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Planes())
		})
	}
}

func TestBuildFuncCallsOncePerByte(t *testing.T) {
	var calls [256]int
	m, err := BuildFunc(func(b byte) bool {
		calls[b]++
		return b%7 == 0
	})
	require.NoError(t, err)
	for b, n := range calls {
		require.Equal(t, 1, n, "byte %d", b)
	}
	assert.True(t, m.Matches(0))
	assert.True(t, m.Matches(7))
	assert.False(t, m.Matches(8))
}

// TestBuildFewRowPatterns checks that a class whose rows use at most eight
// distinct member sets is always encodable.
func TestBuildFewRowPatterns(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 500; iter++ {
		patterns := make([]uint16, 1+r.IntN(MaxPlanes))
		for i := range patterns {
			patterns[i] = uint16(r.Uint32())
		}
		var class [256]bool
		for row := 0; row < 16; row++ {
			if r.IntN(4) == 0 {
				continue
			}
			p := patterns[r.IntN(len(patterns))]
			for col := 0; col < 16; col++ {
				class[row<<4|col] = p&(1<<col) != 0
			}
		}
		m, err := Build(&class)
		require.NoError(t, err, "patterns %x", patterns)
		require.True(t, m.Verify(&class), "patterns %x", patterns)
	}
}

// planted returns the union of k random rectangles of the nibble matrix,
// a class that has an encoding with at most k planes.
func planted(r *rand.Rand, k int) *[256]bool {
	var c [256]bool
	for i := 0; i < k; i++ {
		rows, cols := uint16(r.Uint32()), uint16(r.Uint32())
		for b := range c {
			if rows&(1<<(b>>4)) != 0 && cols&(1<<(b&0x0f)) != 0 {
				c[b] = true
			}
		}
	}
	return &c
}

func TestBuildAcceptsEncodableClasses(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 9))
	for k := 1; k <= MaxPlanes; k++ {
		for iter := 0; iter < 60; iter++ {
			class := planted(r, k)
			m, err := Build(class)
			require.NoError(t, err, "k=%d iter=%d", k, iter)
			require.True(t, m.Verify(class), "k=%d iter=%d", k, iter)
			require.LessOrEqual(t, m.Planes(), MaxPlanes)
		}
	}
}

// TestBuildSharedNibbleBits encodes the class of bytes whose two nibbles
// share a set bit. Every row has its own member set, so covering whole rows
// needs 15 planes; one plane per nibble bit needs 4.
func TestBuildSharedNibbleBits(t *testing.T) {
	member := func(b byte) bool { return (b>>4)&(b&0x0f) != 0 }

	var class [256]bool
	for b := range class {
		class[b] = member(byte(b))
	}
	m, err := BuildFunc(member)
	require.NoError(t, err)
	assert.True(t, m.Verify(&class))
	assert.Equal(t, 4, m.Planes())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err = NewBuilder(logger).Build(&class)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "searched=true")
}

func TestMaximalRectangles(t *testing.T) {
	var rows [16]uint16
	rows[0] = 0b0111
	rows[1] = 0b0110
	rows[2] = 0b1100
	planes, ok := maximal(&rows)
	require.True(t, ok)

	got := map[uint16]uint16{}
	for _, p := range planes {
		got[p.cols] = p.rows
		for r := 0; r < 16; r++ {
			if p.rows&(1<<r) != 0 {
				require.Equal(t, p.cols, rows[r]&p.cols, "rectangle leaves the class")
			}
		}
	}
	assert.Equal(t, map[uint16]uint16{
		0b0111: 0b001,
		0b0110: 0b011,
		0b1100: 0b100,
		0b0100: 0b111,
	}, got)
}

// TestBuildNeverWrong checks arbitrary classes: they either encode exactly
// or are rejected.
func TestBuildNeverWrong(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for iter := 0; iter < 500; iter++ {
		var class [256]bool
		density := r.Float64()
		for b := range class {
			class[b] = r.Float64() < density
		}
		m, err := Build(&class)
		if err != nil {
			require.True(t, errors.Is(err, ErrNotEncodable))
			continue
		}
		require.True(t, m.Verify(&class))
	}
}

func TestBuilderLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := NewBuilder(logger)

	_, err := b.Build(classRange('0', '9'))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "class encoded")
	assert.Contains(t, buf.String(), "planes=1")
	assert.Contains(t, buf.String(), "members=10")

	buf.Reset()
	_, err = b.Build(diagonal())
	require.ErrorIs(t, err, ErrNotEncodable)
	assert.Contains(t, buf.String(), "not encodable")
	assert.Contains(t, buf.String(), "planes=16")
}

func TestBuilderNilLogger(t *testing.T) {
	m, err := NewBuilder(nil).Build(classOf("abc"))
	require.NoError(t, err)
	assert.True(t, m.Matches('b'))
}

func TestWideMasks(t *testing.T) {
	m, err := Build(classOf("aeiou"))
	require.NoError(t, err)

	w := m.Wide()
	assert.Equal(t, m.Lo[:], w[:16])
	assert.Equal(t, m.Hi[:], w[16:])
	assert.Equal(t, m, w.Split())
}

func BenchmarkBuild(b *testing.B) {
	class := classOf("0123456789abcdefABCDEF")
	for i := 0; i < b.N; i++ {
		_, _ = Build(class)
	}
}
