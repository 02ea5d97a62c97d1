// Package alphabet defines the glyph set used as digits by the glyphpack
// text codecs.
//
// An Alphabet is an ordered sequence of unique single-byte glyphs. The
// glyph at index 0 doubles as the zero/pad glyph for fixed-width
// encodings. Alphabets are immutable after construction and safe for
// concurrent use.
//
// The default alphabet deliberately excludes:
//   - vowels (a profanity guard for generated strings)
//   - visually ambiguous glyphs (0/O, 1/l/I)
//   - the reserved wire-format glyphs 'E' and 'C' (format discriminators)
//     and ':' and '-' (metadata separators)
//
// Keeping the reserved glyphs outside the data alphabet guarantees that a
// payload's first character identifies its wire format unambiguously.
package alphabet

import (
	"fmt"

	"github.com/kverlio/glyphpack/errs"
)

// Reserved glyphs that may never appear in a data alphabet. 'E' and 'C'
// are wire-format discriminators; ':' and '-' delimit the direct format's
// metadata header.
const reserved = "EC:-"

// defaultGlyphs is the built-in 70-glyph alphabet: digits 2-9, lower and
// upper consonants (minus l, I, O and the reserved glyphs), and text-safe
// punctuation. Index 0 is '2', the zero/pad glyph.
const defaultGlyphs = "23456789" +
	"bcdfghjkmnpqrstvwxyz" +
	"BDFGHJKLMNPQRSTVWXYZ" +
	"!#$%&()*+./<=>?@[]^_|~"

// Alphabet is a bidirectional mapping between glyphs and digit values.
type Alphabet struct {
	glyphs string
	index  [256]int16
}

var defaultAlphabet = mustNew(defaultGlyphs)

// Default returns the built-in 70-glyph alphabet.
func Default() *Alphabet {
	return defaultAlphabet
}

// New builds an Alphabet from the given ordered glyph string.
//
// The string must contain at least two glyphs, every glyph must be a
// unique printable ASCII character, and none may be one of the reserved
// wire-format glyphs ('E', 'C', ':', '-').
//
// Returns:
//   - *Alphabet: The constructed alphabet.
//   - error: ErrInvalidAlphabet if the glyph string is unusable.
func New(glyphs string) (*Alphabet, error) {
	if len(glyphs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 glyphs, got %d", errs.ErrInvalidAlphabet, len(glyphs))
	}

	a := &Alphabet{glyphs: glyphs}
	for i := range a.index {
		a.index[i] = -1
	}

	for i := 0; i < len(glyphs); i++ {
		c := glyphs[i]
		if c <= ' ' || c >= 0x7f {
			return nil, fmt.Errorf("%w: glyph %q at index %d is not printable ASCII", errs.ErrInvalidAlphabet, c, i)
		}
		for j := 0; j < len(reserved); j++ {
			if c == reserved[j] {
				return nil, fmt.Errorf("%w: glyph %q at index %d is reserved by the wire format", errs.ErrInvalidAlphabet, c, i)
			}
		}
		if a.index[c] >= 0 {
			return nil, fmt.Errorf("%w: duplicate glyph %q at index %d", errs.ErrInvalidAlphabet, c, i)
		}
		a.index[c] = int16(i)
	}

	return a, nil
}

func mustNew(glyphs string) *Alphabet {
	a, err := New(glyphs)
	if err != nil {
		panic(err)
	}

	return a
}

// Base returns the number of glyphs in the alphabet.
func (a *Alphabet) Base() int {
	return len(a.glyphs)
}

// Zero returns the glyph of index 0, used as the zero digit and as the
// left-pad glyph for fixed-width encodings.
func (a *Alphabet) Zero() byte {
	return a.glyphs[0]
}

// String returns the ordered glyph sequence. The glyph for digit value i
// is String()[i].
func (a *Alphabet) String() string {
	return a.glyphs
}

// Glyph returns the glyph for the given digit value.
//
// Returns:
//   - byte: The glyph at the given index.
//   - error: ErrInvalidGlyph if the index is outside [0, Base).
func (a *Alphabet) Glyph(index int) (byte, error) {
	if index < 0 || index >= len(a.glyphs) {
		return 0, fmt.Errorf("%w: digit value %d outside base %d", errs.ErrInvalidGlyph, index, len(a.glyphs))
	}

	return a.glyphs[index], nil
}

// Index returns the digit value of the given glyph.
//
// A glyph outside the alphabet is a hard decode failure, never a
// best-effort guess.
//
// Returns:
//   - int: The digit value of the glyph.
//   - error: ErrInvalidGlyph if the glyph is not in the alphabet.
func (a *Alphabet) Index(glyph byte) (int, error) {
	v := a.index[glyph]
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is not in the alphabet", errs.ErrInvalidGlyph, glyph)
	}

	return int(v), nil
}

// Contains reports whether the glyph is part of the alphabet.
func (a *Alphabet) Contains(glyph byte) bool {
	return a.index[glyph] >= 0
}
