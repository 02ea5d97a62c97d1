// Package schema maps named-field records onto glyphpack payloads.
//
// A schema is an ordered list of field descriptors. When every descriptor
// is a leaf, the schema runs in simple mode: leaf maxima fix the
// bit-width list once at construction time, and records encode through
// the codec's compact-or-direct selector. When any descriptor is a
// composite (a fixed-count array of sub-records), the schema runs in
// complex mode: records flatten depth-first, each value's bit-width is
// computed on the fly, and the interleaved width/value list travels in a
// self-describing 'C' envelope.
//
// Schemas are immutable after construction and safe for concurrent use.
package schema

import (
	"fmt"

	"github.com/kverlio/glyphpack/bitstream"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/format"
	"github.com/kverlio/glyphpack/internal/options"
	"github.com/kverlio/glyphpack/payload"
)

// Record holds a record's field values keyed by descriptor name. Leaf
// values are unsigned integers (any Go integer type that fits uint64);
// composite values are []Record slices of exactly the descriptor's
// repeat count.
type Record map[string]any

// Schema encodes and decodes named records.
type Schema struct {
	descriptors []FieldDescriptor
	codec       *payload.Codec
	complex     bool

	// Simple mode: fixed bit-width list derived from leaf maxima.
	widths []int

	// Complex mode: leaf count of one flattened record.
	flatCount int
}

// Option configures a Schema.
type Option = options.Option[*Schema]

// WithCodec sets the payload codec the schema encodes through. The
// default is a codec with default settings.
func WithCodec(c *payload.Codec) Option {
	return func(s *Schema) error {
		if c == nil {
			return fmt.Errorf("%w: nil codec", errs.ErrInvalidDescriptor)
		}
		s.codec = c

		return nil
	}
}

// New builds a Schema from an ordered descriptor list.
//
// Returns:
//   - *Schema: The constructed schema.
//   - error: ErrEmptySchema, ErrDuplicateFieldName or
//     ErrInvalidDescriptor when the descriptor tree is malformed.
func New(descriptors []FieldDescriptor, opts ...Option) (*Schema, error) {
	if err := validateDescriptors(descriptors, 1); err != nil {
		return nil, err
	}

	s := &Schema{
		descriptors: descriptors,
		complex:     hasComposite(descriptors),
		flatCount:   flatLeafCount(descriptors),
	}
	if !s.complex {
		s.widths = make([]int, 0, len(descriptors))
		for _, d := range descriptors {
			s.widths = append(s.widths, bitstream.BitsRequired(d.maxValue))
		}
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}
	if s.codec == nil {
		c, err := payload.New()
		if err != nil {
			return nil, err
		}
		s.codec = c
	}

	return s, nil
}

// Complex reports whether the schema contains a composite descriptor and
// therefore uses the 'C' envelope.
func (s *Schema) Complex() bool {
	return s.complex
}

// Widths returns the simple-mode bit-width list, or nil for a complex
// schema.
func (s *Schema) Widths() []int {
	if s.complex {
		return nil
	}

	out := make([]int, len(s.widths))
	copy(out, s.widths)

	return out
}

// Encode pulls the named values out of the record in descriptor order
// and encodes them into one payload string.
//
// Returns:
//   - string: The encoded payload.
//   - error: ErrUnknownField for a missing value, ErrFieldTypeMismatch
//     for a value of the wrong shape, ErrValueOutOfRange for a leaf above
//     its declared maximum, ErrWidthOverflow for a complex-mode value
//     that exceeds the 16-bit wire slot.
func (s *Schema) Encode(rec Record) (string, error) {
	if s.complex {
		return s.encodeComplex(rec)
	}

	values := make([]uint64, 0, len(s.descriptors))
	for _, d := range s.descriptors {
		v, err := leafValue(rec, d)
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}

	return s.codec.EncodeFields(values, s.widths)
}

// Decode rebuilds a named record from a payload produced by Encode.
//
// Returns:
//   - Record: The decoded record, names re-attached in descriptor order.
//   - error: Codec decode errors, or ErrComplexPayload when the payload's
//     format does not match the schema's mode.
func (s *Schema) Decode(payloadStr string) (Record, error) {
	if s.complex {
		return s.decodeComplex(payloadStr)
	}

	if format.Detect(payloadStr) == format.KindComplex {
		return nil, fmt.Errorf("%w: schema has no composite fields", errs.ErrComplexPayload)
	}

	values, err := s.codec.DecodeFields(payloadStr, s.widths)
	if err != nil {
		return nil, err
	}

	rec := make(Record, len(s.descriptors))
	for i, d := range s.descriptors {
		rec[d.name] = values[i]
	}

	return rec, nil
}

// leafValue extracts and validates a leaf descriptor's value from a
// record.
func leafValue(rec Record, d FieldDescriptor) (uint64, error) {
	raw, ok := rec[d.name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownField, d.name)
	}

	v, ok := asUint64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: field %q holds %T, want an unsigned integer", errs.ErrFieldTypeMismatch, d.name, raw)
	}
	if v > d.maxValue {
		return 0, fmt.Errorf("%w: field %q value %d exceeds maximum %d", errs.ErrValueOutOfRange, d.name, v, d.maxValue)
	}

	return v, nil
}

// asUint64 normalizes the integer types a caller may plausibly store in
// a Record. Negative values and non-integers are rejected.
func asUint64(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int32:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
