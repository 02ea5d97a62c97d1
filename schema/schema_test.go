package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/format"
	"github.com/kverlio/glyphpack/payload"
)

// newCharacterSchema returns the canonical simple test schema: three
// leaves whose maxima derive the bit-width list {2, 4, 12}.
func newCharacterSchema(t *testing.T, opts ...Option) *Schema {
	t.Helper()

	s, err := New([]FieldDescriptor{
		Leaf("alliance", 3),
		Leaf("race", 12),
		Leaf("cpLevel", 4000),
	}, opts...)
	require.NoError(t, err)

	return s
}

// newPartySchema returns the canonical complex test schema: one
// composite of 14 repeated 4-leaf sub-records, 56 values flattened.
func newPartySchema(t *testing.T, opts ...Option) *Schema {
	t.Helper()

	s, err := New([]FieldDescriptor{
		Composite("party", 14,
			Leaf("class", 12),
			Leaf("level", 60),
			Leaf("role", 3),
			Leaf("score", 1_000_000),
		),
	}, opts...)
	require.NoError(t, err)

	return s
}

// ==============================================================================
// Construction
// ==============================================================================

func TestSchema_New(t *testing.T) {
	s := newCharacterSchema(t)
	require.False(t, s.Complex())
	require.Equal(t, []int{2, 4, 12}, s.Widths())
}

func TestSchema_NewComplex(t *testing.T) {
	s := newPartySchema(t)
	require.True(t, s.Complex())
	require.Nil(t, s.Widths())
	require.Equal(t, 56, s.flatCount)
}

func TestSchema_ValidationErrors(t *testing.T) {
	t.Run("empty schema", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, errs.ErrEmptySchema)
	})

	t.Run("empty composite body", func(t *testing.T) {
		_, err := New([]FieldDescriptor{Composite("party", 3)})
		require.ErrorIs(t, err, errs.ErrEmptySchema)
	})

	t.Run("duplicate names at one level", func(t *testing.T) {
		_, err := New([]FieldDescriptor{Leaf("x", 1), Leaf("x", 2)})
		require.ErrorIs(t, err, errs.ErrDuplicateFieldName)
	})

	t.Run("same name at different levels is fine", func(t *testing.T) {
		_, err := New([]FieldDescriptor{
			Leaf("x", 1),
			Composite("group", 2, Leaf("x", 5)),
		})
		require.NoError(t, err)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := New([]FieldDescriptor{Leaf("", 1)})
		require.ErrorIs(t, err, errs.ErrInvalidDescriptor)
	})

	t.Run("non-positive repeat count", func(t *testing.T) {
		_, err := New([]FieldDescriptor{Composite("party", 0, Leaf("x", 1))})
		require.ErrorIs(t, err, errs.ErrInvalidDescriptor)
	})

	t.Run("zero-value descriptor", func(t *testing.T) {
		_, err := New([]FieldDescriptor{{}})
		require.ErrorIs(t, err, errs.ErrInvalidDescriptor)
	})

	t.Run("excessive nesting", func(t *testing.T) {
		d := Leaf("leaf", 1)
		for i := 0; i < 10; i++ {
			d = Composite("level", 1, d)
		}
		_, err := New([]FieldDescriptor{d})
		require.ErrorIs(t, err, errs.ErrInvalidDescriptor)
	})
}

// ==============================================================================
// Simple mode
// ==============================================================================

func TestSchema_SimpleRoundTrip(t *testing.T) {
	s := newCharacterSchema(t)

	payloadStr, err := s.Encode(Record{
		"alliance": 2,
		"race":     7,
		"cpLevel":  455,
	})
	require.NoError(t, err)
	require.Equal(t, format.KindCompact, format.Detect(payloadStr))

	rec, err := s.Decode(payloadStr)
	require.NoError(t, err)
	require.Equal(t, Record{
		"alliance": uint64(2),
		"race":     uint64(7),
		"cpLevel":  uint64(455),
	}, rec)
}

func TestSchema_SimpleEncodeErrors(t *testing.T) {
	s := newCharacterSchema(t)

	t.Run("missing field", func(t *testing.T) {
		_, err := s.Encode(Record{"alliance": 1, "race": 2})
		require.ErrorIs(t, err, errs.ErrUnknownField)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := s.Encode(Record{"alliance": "horde", "race": 2, "cpLevel": 3})
		require.ErrorIs(t, err, errs.ErrFieldTypeMismatch)
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := s.Encode(Record{"alliance": -1, "race": 2, "cpLevel": 3})
		require.ErrorIs(t, err, errs.ErrFieldTypeMismatch)
	})

	t.Run("value above declared maximum", func(t *testing.T) {
		_, err := s.Encode(Record{"alliance": 4, "race": 2, "cpLevel": 3})
		require.ErrorIs(t, err, errs.ErrValueOutOfRange)
	})
}

func TestSchema_SimpleDecodeRejectsComplexEnvelope(t *testing.T) {
	simple := newCharacterSchema(t)
	complexSchema := newPartySchema(t)

	rec := Record{"party": fullParty(0)}
	payloadStr, err := complexSchema.Encode(rec)
	require.NoError(t, err)

	_, err = simple.Decode(payloadStr)
	require.ErrorIs(t, err, errs.ErrComplexPayload)
}

func TestSchema_AcceptsCommonIntegerTypes(t *testing.T) {
	s := newCharacterSchema(t)

	payloadStr, err := s.Encode(Record{
		"alliance": uint8(2),
		"race":     int64(7),
		"cpLevel":  uint32(455),
	})
	require.NoError(t, err)

	rec, err := s.Decode(payloadStr)
	require.NoError(t, err)
	require.Equal(t, uint64(455), rec["cpLevel"])
}

// ==============================================================================
// Complex mode
// ==============================================================================

// fullParty builds 14 sub-records with distinct values; bump offsets the
// score so tests can vary the data.
func fullParty(bump uint64) []Record {
	party := make([]Record, 14)
	for i := range party {
		party[i] = Record{
			"class": uint64(i % 12),
			"level": uint64(1 + i*4),
			"role":  uint64(i % 4),
			"score": uint64(i)*1000 + bump,
		}
	}

	return party
}

func TestSchema_ComplexRoundTrip(t *testing.T) {
	s := newPartySchema(t)

	payloadStr, err := s.Encode(Record{"party": fullParty(65535 - 13000)})
	require.NoError(t, err)
	require.Equal(t, format.KindComplex, format.Detect(payloadStr))

	rec, err := s.Decode(payloadStr)
	require.NoError(t, err)

	party, ok := rec["party"].([]Record)
	require.True(t, ok)
	require.Len(t, party, 14)

	want := fullParty(65535 - 13000)
	for i := range want {
		require.Equal(t, want[i]["class"], party[i]["class"], "member %d class", i)
		require.Equal(t, want[i]["level"], party[i]["level"], "member %d level", i)
		require.Equal(t, want[i]["role"], party[i]["role"], "member %d role", i)
		require.Equal(t, want[i]["score"], party[i]["score"], "member %d score", i)
	}
}

func TestSchema_ComplexRejectsValuesBeyond16Bits(t *testing.T) {
	// The interleaved wire format fixes the value slot at 16 bits. A
	// value of 65536 or above must be rejected at encode, never silently
	// truncated, even though the leaf's declared maximum allows it.
	s := newPartySchema(t)

	party := fullParty(0)
	party[3]["score"] = uint64(65536)

	_, err := s.Encode(Record{"party": party})
	require.ErrorIs(t, err, errs.ErrWidthOverflow)

	// 65535 is the last representable value and must round-trip.
	party[3]["score"] = uint64(65535)
	payloadStr, err := s.Encode(Record{"party": party})
	require.NoError(t, err)

	rec, err := s.Decode(payloadStr)
	require.NoError(t, err)
	require.Equal(t, uint64(65535), rec["party"].([]Record)[3]["score"])
}

func TestSchema_ComplexMixedTopLevel(t *testing.T) {
	s, err := New([]FieldDescriptor{
		Leaf("version", 15),
		Composite("pair", 2, Leaf("a", 100), Leaf("b", 100)),
	})
	require.NoError(t, err)
	require.True(t, s.Complex())

	rec := Record{
		"version": 9,
		"pair": []Record{
			{"a": 1, "b": 2},
			{"a": 3, "b": 4},
		},
	}

	payloadStr, err := s.Encode(rec)
	require.NoError(t, err)

	got, err := s.Decode(payloadStr)
	require.NoError(t, err)
	require.Equal(t, uint64(9), got["version"])
	require.Equal(t, uint64(4), got["pair"].([]Record)[1]["b"])
}

func TestSchema_ComplexEncodeErrors(t *testing.T) {
	s := newPartySchema(t)

	t.Run("missing composite", func(t *testing.T) {
		_, err := s.Encode(Record{})
		require.ErrorIs(t, err, errs.ErrUnknownField)
	})

	t.Run("composite holds wrong type", func(t *testing.T) {
		_, err := s.Encode(Record{"party": "not a slice"})
		require.ErrorIs(t, err, errs.ErrFieldTypeMismatch)
	})

	t.Run("repeat count mismatch", func(t *testing.T) {
		_, err := s.Encode(Record{"party": fullParty(0)[:13]})
		require.ErrorIs(t, err, errs.ErrRepeatCountMismatch)
	})
}

func TestSchema_ComplexDecodeErrors(t *testing.T) {
	s := newPartySchema(t)

	t.Run("wrong discriminator", func(t *testing.T) {
		_, err := s.Decode("E3-2:1:222")
		require.ErrorIs(t, err, errs.ErrUnknownFormatDiscriminator)
	})

	t.Run("missing count separator", func(t *testing.T) {
		_, err := s.Decode("C555")
		require.ErrorIs(t, err, errs.ErrMissingMetadataSeparator)
	})

	t.Run("garbled count", func(t *testing.T) {
		_, err := s.Decode("Ca:xyz")
		require.ErrorIs(t, err, errs.ErrUnparsableFieldCount)
	})

	t.Run("count mismatch", func(t *testing.T) {
		small, err := New([]FieldDescriptor{
			Composite("pair", 2, Leaf("a", 10)),
		})
		require.NoError(t, err)

		payloadStr, err := small.Encode(Record{"pair": []Record{{"a": 1}, {"a": 2}}})
		require.NoError(t, err)

		_, err = s.Decode(payloadStr)
		require.ErrorIs(t, err, errs.ErrFieldCountMismatch)
	})

	t.Run("no partial result", func(t *testing.T) {
		payloadStr, err := s.Encode(Record{"party": fullParty(0)})
		require.NoError(t, err)

		rec, err := s.Decode(payloadStr[:len(payloadStr)-2])
		require.Error(t, err)
		require.Nil(t, rec)
	})
}

// ==============================================================================
// Options and fingerprints
// ==============================================================================

func TestSchema_WithCodec(t *testing.T) {
	c, err := payload.New()
	require.NoError(t, err)

	s := newCharacterSchema(t, WithCodec(c))
	require.Same(t, c, s.codec)

	_, err = New([]FieldDescriptor{Leaf("x", 1)}, WithCodec(nil))
	require.ErrorIs(t, err, errs.ErrInvalidDescriptor)
}

func TestSchema_Fingerprint(t *testing.T) {
	a := newCharacterSchema(t)
	b := newCharacterSchema(t)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	differentMax, err := New([]FieldDescriptor{
		Leaf("alliance", 3),
		Leaf("race", 12),
		Leaf("cpLevel", 4001),
	})
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), differentMax.Fingerprint())

	reordered, err := New([]FieldDescriptor{
		Leaf("race", 12),
		Leaf("alliance", 3),
		Leaf("cpLevel", 4000),
	})
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), reordered.Fingerprint())

	require.NotEqual(t, a.Fingerprint(), newPartySchema(t).Fingerprint())
}
