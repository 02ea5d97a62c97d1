package radix

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kverlio/glyphpack/alphabet"
	"github.com/kverlio/glyphpack/errs"
)

func TestRadix_EncodeUint(t *testing.T) {
	a := alphabet.Default()

	t.Run("zero encodes as single zero glyph", func(t *testing.T) {
		require.Equal(t, string(a.Zero()), EncodeUint(a, 0))
	})

	t.Run("small values are single glyphs", func(t *testing.T) {
		for v := uint64(0); v < uint64(a.Base()); v++ {
			s := EncodeUint(a, v)
			require.Len(t, s, 1)

			idx, err := a.Index(s[0])
			require.NoError(t, err)
			require.Equal(t, v, uint64(idx))
		}
	})

	t.Run("no leading zero glyphs", func(t *testing.T) {
		for _, v := range []uint64{1, 69, 70, 4900, 4901, 1 << 40} {
			s := EncodeUint(a, v)
			require.NotEqual(t, a.Zero(), s[0], "value %d encoded as %q", v, s)
		}
	})

	t.Run("positional weight", func(t *testing.T) {
		// base^2 must encode as glyph[1] glyph[0] glyph[0].
		base := uint64(a.Base())
		s := EncodeUint(a, base*base)
		want := string([]byte{a.String()[1], a.Zero(), a.Zero()})
		require.Equal(t, want, s)
	})
}

func TestRadix_UintRoundTrip(t *testing.T) {
	a := alphabet.Default()

	values := []uint64{0, 1, 2, 69, 70, 71, 4899, 4900, 100_000, 1 << 20, 1 << 53, ^uint64(0)}
	for _, v := range values {
		s := EncodeUint(a, v)
		got, err := DecodeUint(a, s)
		require.NoError(t, err, "value %d", v)
		require.Equal(t, v, got)
	}
}

func TestRadix_DecodeUint(t *testing.T) {
	a := alphabet.Default()

	t.Run("empty string", func(t *testing.T) {
		_, err := DecodeUint(a, "")
		require.ErrorIs(t, err, errs.ErrTruncatedInput)
	})

	t.Run("invalid glyph", func(t *testing.T) {
		_, err := DecodeUint(a, "3a3")
		require.ErrorIs(t, err, errs.ErrInvalidGlyph)
	})

	t.Run("uint64 overflow", func(t *testing.T) {
		max := new(big.Int).SetUint64(^uint64(0))
		over := new(big.Int).Add(max, big.NewInt(1))
		_, err := DecodeUint(a, EncodeBig(a, over))
		require.ErrorIs(t, err, errs.ErrValueTooWide)
	})
}

func TestRadix_BigRoundTrip(t *testing.T) {
	a := alphabet.Default()

	t.Run("zero", func(t *testing.T) {
		s := EncodeBig(a, big.NewInt(0))
		require.Equal(t, string(a.Zero()), s)

		v, err := DecodeBig(a, s)
		require.NoError(t, err)
		require.Zero(t, v.Sign())
	})

	t.Run("values beyond 64 bits", func(t *testing.T) {
		v := new(big.Int).Lsh(big.NewInt(1), 200)
		v.Sub(v, big.NewInt(12345))

		s := EncodeBig(a, v)
		got, err := DecodeBig(a, s)
		require.NoError(t, err)
		require.Zero(t, v.Cmp(got))
	})

	t.Run("agrees with uint encoding", func(t *testing.T) {
		for _, v := range []uint64{0, 1, 70, 100_000, 1 << 50} {
			require.Equal(t, EncodeUint(a, v), EncodeBig(a, new(big.Int).SetUint64(v)))
		}
	})

	t.Run("leading zero glyphs tolerated", func(t *testing.T) {
		padded := strings.Repeat(string(a.Zero()), 3) + EncodeUint(a, 455)
		v, err := DecodeBig(a, padded)
		require.NoError(t, err)
		require.Equal(t, uint64(455), v.Uint64())
	})
}

func TestRadix_EncodeFixed(t *testing.T) {
	a := alphabet.Default()

	t.Run("pads to digit count", func(t *testing.T) {
		s, err := EncodeFixedUint(a, 5, 3)
		require.NoError(t, err)
		require.Len(t, s, 3)
		require.Equal(t, a.Zero(), s[0])
		require.Equal(t, a.Zero(), s[1])

		v, err := DecodeFixedUint(a, s)
		require.NoError(t, err)
		require.Equal(t, uint64(5), v)
	})

	t.Run("zero pads to all zero glyphs", func(t *testing.T) {
		s, err := EncodeFixedUint(a, 0, 4)
		require.NoError(t, err)
		require.Equal(t, strings.Repeat(string(a.Zero()), 4), s)
	})

	t.Run("rejects value wider than digit count", func(t *testing.T) {
		// base^2 needs three glyphs.
		base := uint64(a.Base())
		_, err := EncodeFixedUint(a, base*base, 2)
		require.ErrorIs(t, err, errs.ErrValueTooWide)

		_, err = EncodeFixed(a, new(big.Int).SetUint64(base*base), 2)
		require.ErrorIs(t, err, errs.ErrValueTooWide)
	})

	t.Run("rejects non-positive digit count", func(t *testing.T) {
		_, err := EncodeFixedUint(a, 1, 0)
		require.ErrorIs(t, err, errs.ErrValueTooWide)
	})
}

func TestRadix_DigitsForBits(t *testing.T) {
	a := alphabet.Default()

	// base 70: one glyph covers 6 bits (2^6=64 < 70), not 7 (2^7=128 > 70).
	tests := []struct {
		bits int
		want int
	}{
		{1, 1},
		{6, 1},
		{7, 2},
		{12, 2},
		{13, 3},
		{16, 3},
		{18, 3},
		{19, 4},
		{24, 4},
		{64, 11},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, DigitsForBits(a, tt.bits), "bits=%d", tt.bits)
	}

	t.Run("digit count always fits the max value", func(t *testing.T) {
		for bits := 1; bits <= 64; bits++ {
			d := DigitsForBits(a, bits)
			max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
			max.Sub(max, big.NewInt(1))

			s, err := EncodeFixed(a, max, d)
			require.NoError(t, err, "bits=%d digits=%d", bits, d)
			require.Len(t, s, d)
		}
	})
}
