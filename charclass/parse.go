package charclass

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"unicode"
)

// ErrUnsupported indicates a pattern that is not a single byte-valued class.
var ErrUnsupported = errors.New("pattern is not a byte class")

// ParseError reports a pattern that could not be turned into a Class.
type ParseError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("charclass: parsing %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse compiles a regular expression denoting a single character class,
// such as `[a-z_]`, `\d`, `(?i)[aeiou]`, `.` or `x`. A trailing + or * on the
// class is accepted and ignored, so `[\w]+` parses as `[\w]`.
//
// Runes are read as byte values, so `\x{e9}` is the byte 0xE9. A class
// containing runes above 0xFF is rejected, except that a class reaching
// unicode.MaxRune (a negated class such as `[^a]` or `\S`) or parsed with
// (?i) is clipped to the byte range.
func Parse(pattern string) (Class, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return Class{}, &ParseError{Pattern: pattern, Err: err}
	}
	c, err := fromRegexp(re)
	if err != nil {
		return Class{}, &ParseError{Pattern: pattern, Err: err}
	}
	return c, nil
}

// MustParse is like Parse but panics on error. It is meant for package-level
// class variables.
func MustParse(pattern string) Class {
	c, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return c
}

func fromRegexp(re *syntax.Regexp) (Class, error) {
	if (re.Op == syntax.OpPlus || re.Op == syntax.OpStar) && len(re.Sub) == 1 {
		re = re.Sub[0]
	}

	switch re.Op {
	case syntax.OpCharClass:
		return fromRanges(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpLiteral:
		if len(re.Rune) != 1 {
			return Class{}, fmt.Errorf("%w: literal of %d runes", ErrUnsupported, len(re.Rune))
		}
		r := re.Rune[0]
		if r > 0xff {
			return Class{}, fmt.Errorf("%w: rune %U above 0xFF", ErrUnsupported, r)
		}
		c := Of(byte(r))
		if re.Flags&syntax.FoldCase != 0 {
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				if f <= 0xff {
					c = c.With(byte(f))
				}
			}
		}
		return c, nil
	case syntax.OpAnyCharNotNL:
		return Of('\n').Negate(), nil
	case syntax.OpAnyChar:
		return Of().Negate(), nil
	default:
		return Class{}, fmt.Errorf("%w: %s", ErrUnsupported, re.Op)
	}
}

// fromRanges converts the sorted lo/hi rune pairs of a parsed class. Case
// folding adds partners such as U+212A KELVIN SIGN for k, which are dropped.
func fromRanges(runes []rune, folded bool) (Class, error) {
	if len(runes)%2 != 0 {
		return Class{}, fmt.Errorf("%w: malformed range list", ErrUnsupported)
	}
	clip := folded || len(runes) > 0 && runes[len(runes)-1] == unicode.MaxRune

	var c Class
	for i := 0; i < len(runes); i += 2 {
		lo, hi := runes[i], runes[i+1]
		if hi > 0xff {
			if !clip {
				return Class{}, fmt.Errorf("%w: range %U-%U above 0xFF", ErrUnsupported, lo, hi)
			}
			if lo > 0xff {
				continue
			}
			hi = 0xff
		}
		c = c.Union(Range(byte(lo), byte(hi)))
	}
	return c, nil
}
