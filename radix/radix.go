// Package radix converts non-negative integers to and from strings in a
// custom base defined by an alphabet.
//
// Digits are big-endian: the most significant glyph comes first, matching
// ordinary positional numerals. Conversions exist in two precisions:
// uint64 for small values and math/big for the arbitrary-precision
// integers produced by bit packing. All arithmetic is exact integer
// arithmetic; no conversion ever round-trips through a float.
//
// The fixed-width variant left-pads with the alphabet's zero glyph so a
// field of known bit-width always occupies the same number of glyphs,
// which lets a decoder slice concatenated fields without separators.
package radix

import (
	"fmt"
	"math/big"

	"github.com/kverlio/glyphpack/alphabet"
	"github.com/kverlio/glyphpack/errs"
)

// EncodeUint encodes v as a base-N string against the alphabet.
// Value 0 encodes as the single zero glyph; any other value has no
// leading zero glyphs.
func EncodeUint(a *alphabet.Alphabet, v uint64) string {
	digits := a.String()
	base := uint64(a.Base())

	if v == 0 {
		return digits[0:1]
	}

	// 64 bits in base >= 2 never exceeds 64 glyphs.
	var buf [64]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = digits[v%base]
		v /= base
	}

	return string(buf[pos:])
}

// DecodeUint decodes a base-N string into a uint64.
//
// Returns:
//   - uint64: The decoded value.
//   - error: ErrTruncatedInput for an empty string, ErrInvalidGlyph for a
//     character outside the alphabet, ErrValueTooWide if the value does
//     not fit in 64 bits.
func DecodeUint(a *alphabet.Alphabet, s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty integer string", errs.ErrTruncatedInput)
	}

	base := uint64(a.Base())
	maxBeforeMul := ^uint64(0) / base

	var v uint64
	for i := 0; i < len(s); i++ {
		d, err := a.Index(s[i])
		if err != nil {
			return 0, err
		}
		if v > maxBeforeMul {
			return 0, fmt.Errorf("%w: %q overflows uint64", errs.ErrValueTooWide, s)
		}
		v = v * base
		if v > ^uint64(0)-uint64(d) {
			return 0, fmt.Errorf("%w: %q overflows uint64", errs.ErrValueTooWide, s)
		}
		v += uint64(d)
	}

	return v, nil
}

// EncodeBig encodes an arbitrary-precision non-negative integer as a
// base-N string. Value 0 encodes as the single zero glyph.
//
// The input is not modified.
func EncodeBig(a *alphabet.Alphabet, v *big.Int) string {
	digits := a.String()

	if v.Sign() == 0 {
		return digits[0:1]
	}

	base := big.NewInt(int64(a.Base()))
	tmp := new(big.Int).Set(v)
	rem := new(big.Int)

	// Digits come out least significant first; reverse at the end.
	out := make([]byte, 0, estimateDigits(a, v.BitLen()))
	for tmp.Sign() > 0 {
		tmp.DivMod(tmp, base, rem)
		out = append(out, digits[rem.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

// DecodeBig decodes a base-N string into an arbitrary-precision integer.
// Leading zero glyphs are tolerated.
//
// Returns:
//   - *big.Int: The decoded value.
//   - error: ErrTruncatedInput for an empty string, ErrInvalidGlyph for a
//     character outside the alphabet.
func DecodeBig(a *alphabet.Alphabet, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty integer string", errs.ErrTruncatedInput)
	}

	base := big.NewInt(int64(a.Base()))
	v := new(big.Int)
	d := new(big.Int)

	for i := 0; i < len(s); i++ {
		idx, err := a.Index(s[i])
		if err != nil {
			return nil, err
		}
		v.Mul(v, base)
		v.Add(v, d.SetInt64(int64(idx)))
	}

	return v, nil
}

// EncodeFixed encodes v left-padded with the zero glyph to exactly the
// given digit count.
//
// Callers size the digit count to the field's maximum value via
// DigitsForBits; a value whose natural encoding needs more glyphs fails
// with ErrValueTooWide rather than truncating.
func EncodeFixed(a *alphabet.Alphabet, v *big.Int, digitCount int) (string, error) {
	if digitCount < 1 {
		return "", fmt.Errorf("%w: digit count %d", errs.ErrValueTooWide, digitCount)
	}

	natural := EncodeBig(a, v)
	if len(natural) > digitCount {
		return "", fmt.Errorf("%w: value needs %d glyphs, field allows %d",
			errs.ErrValueTooWide, len(natural), digitCount)
	}

	pad := digitCount - len(natural)
	buf := make([]byte, digitCount)
	for i := 0; i < pad; i++ {
		buf[i] = a.Zero()
	}
	copy(buf[pad:], natural)

	return string(buf), nil
}

// EncodeFixedUint is EncodeFixed for values that fit in a uint64.
func EncodeFixedUint(a *alphabet.Alphabet, v uint64, digitCount int) (string, error) {
	if digitCount < 1 {
		return "", fmt.Errorf("%w: digit count %d", errs.ErrValueTooWide, digitCount)
	}

	natural := EncodeUint(a, v)
	if len(natural) > digitCount {
		return "", fmt.Errorf("%w: value needs %d glyphs, field allows %d",
			errs.ErrValueTooWide, len(natural), digitCount)
	}

	buf := make([]byte, digitCount)
	pad := digitCount - len(natural)
	for i := 0; i < pad; i++ {
		buf[i] = a.Zero()
	}
	copy(buf[pad:], natural)

	return string(buf), nil
}

// DecodeFixed decodes a fixed-width slice back into an integer. It is the
// inverse of EncodeFixed and tolerant of leading zero glyphs.
func DecodeFixed(a *alphabet.Alphabet, s string) (*big.Int, error) {
	return DecodeBig(a, s)
}

// DecodeFixedUint decodes a fixed-width slice into a uint64.
func DecodeFixedUint(a *alphabet.Alphabet, s string) (uint64, error) {
	return DecodeUint(a, s)
}

// DigitsForBits returns the minimal glyph count able to represent every
// value of the given bit-width: the smallest d with base^d >= 2^bits.
//
// This is the integer-exact form of ceil(bits / log2(base)); it never
// consults floating point, so the glyph sizing embedded in wire metadata
// is deterministic across platforms.
func DigitsForBits(a *alphabet.Alphabet, bits int) int {
	if bits <= 0 {
		return 1
	}

	base := big.NewInt(int64(a.Base()))
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))

	pow := big.NewInt(1)
	d := 0
	for pow.Cmp(limit) < 0 {
		pow.Mul(pow, base)
		d++
	}

	return d
}

// estimateDigits returns an upper bound on the glyph count of a value
// with the given bit length, used only for buffer pre-sizing.
func estimateDigits(a *alphabet.Alphabet, bitLen int) int {
	if bitLen <= 0 {
		return 1
	}
	// base >= 2, so one glyph always covers at least one bit.
	if a.Base() >= 64 {
		return bitLen/6 + 1
	}

	return bitLen + 1
}
