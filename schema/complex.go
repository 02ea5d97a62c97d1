package schema

import (
	"fmt"
	"strings"

	"github.com/kverlio/glyphpack/bitstream"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/format"
)

// Complex-mode wire constants. Each flattened value travels as a width
// field followed by a value field. The 5-bit width field caps supported
// widths at 31; the 16-bit value field caps values at 65535. Both sizes
// are fixed by the wire format and kept for compatibility; values that
// do not fit the 16-bit slot are rejected at encode time, never
// truncated.
const (
	complexWidthBits = 5
	complexValueBits = 16
	complexValueMax  = uint64(1)<<complexValueBits - 1

	// minDynamicWidth floors every dynamic width so even zero values
	// occupy a recoverable slot.
	minDynamicWidth = 4
)

// encodeComplex flattens the record depth-first, interleaves a dynamic
// width and a value per flattened leaf, and wraps the result in the 'C'
// envelope: discriminator, base-N encoded leaf count, one colon, then
// the interleaved list encoded through the codec's selector.
func (s *Schema) encodeComplex(rec Record) (string, error) {
	flat, err := flattenRecord(rec, s.descriptors, nil)
	if err != nil {
		return "", err
	}

	values := make([]uint64, 0, len(flat)*2)
	widths := make([]int, 0, len(flat)*2)
	for _, fv := range flat {
		dynamic := bitstream.BitsRequired(fv.value)
		if dynamic < minDynamicWidth {
			dynamic = minDynamicWidth
		}
		if fv.value > complexValueMax {
			return "", fmt.Errorf("%w: field %q value %d", errs.ErrWidthOverflow, fv.path, fv.value)
		}

		values = append(values, uint64(dynamic), fv.value)
		widths = append(widths, complexWidthBits, complexValueBits)
	}

	inner, err := s.codec.EncodeFields(values, widths)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	count := s.codec.EncodeInteger(uint64(len(flat)))
	sb.Grow(1 + len(count) + 1 + len(inner))
	sb.WriteByte(format.DiscriminatorComplex)
	sb.WriteString(count)
	sb.WriteByte(':')
	sb.WriteString(inner)

	return sb.String(), nil
}

// decodeComplex strips the 'C' envelope, rebuilds the interleaved
// bit-width list purely from position parity, decodes, discards the
// width entries and re-nests the flat values against the schema.
func (s *Schema) decodeComplex(payloadStr string) (Record, error) {
	if format.Detect(payloadStr) != format.KindComplex {
		return nil, fmt.Errorf("%w: payload lacks the complex discriminator", errs.ErrUnknownFormatDiscriminator)
	}

	sep := strings.IndexByte(payloadStr, ':')
	if sep < 0 {
		return nil, fmt.Errorf("%w: complex envelope has no element count separator", errs.ErrMissingMetadataSeparator)
	}

	count, err := s.codec.DecodeInteger(payloadStr[1:sep])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnparsableFieldCount, err)
	}
	if count != uint64(s.flatCount) {
		return nil, fmt.Errorf("%w: payload declares %d values, schema flattens to %d",
			errs.ErrFieldCountMismatch, count, s.flatCount)
	}

	widths := make([]int, 0, s.flatCount*2)
	for i := 0; i < s.flatCount; i++ {
		widths = append(widths, complexWidthBits, complexValueBits)
	}

	interleaved, err := s.codec.DecodeFields(payloadStr[sep+1:], widths)
	if err != nil {
		return nil, err
	}

	flat := make([]uint64, s.flatCount)
	for i := range flat {
		flat[i] = interleaved[i*2+1]
	}

	rec, rest, err := expandRecord(flat, s.descriptors)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d values left after expansion", errs.ErrFieldCountMismatch, len(rest))
	}

	return rec, nil
}

// flatValue is one leaf value with its dotted path, carried for error
// reporting.
type flatValue struct {
	path  string
	value uint64
}

// flattenRecord walks descriptors in order, depth-first, iterating
// sub-records before sub-fields for composites.
func flattenRecord(rec Record, descriptors []FieldDescriptor, prefix []string) ([]flatValue, error) {
	out := make([]flatValue, 0, flatLeafCount(descriptors))
	for _, d := range descriptors {
		switch d.kind {
		case kindComposite:
			subs, err := compositeValue(rec, d)
			if err != nil {
				return nil, err
			}
			for i, sub := range subs {
				childPrefix := make([]string, 0, len(prefix)+1)
				childPrefix = append(childPrefix, prefix...)
				childPrefix = append(childPrefix, fmt.Sprintf("%s[%d]", d.name, i))

				nested, err := flattenRecord(sub, d.nested, childPrefix)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
			}
		default:
			v, err := leafValue(rec, d)
			if err != nil {
				return nil, err
			}
			path := d.name
			if len(prefix) > 0 {
				path = strings.Join(prefix, ".") + "." + d.name
			}
			out = append(out, flatValue{path: path, value: v})
		}
	}

	return out, nil
}

// compositeValue extracts a composite descriptor's sub-record slice.
func compositeValue(rec Record, d FieldDescriptor) ([]Record, error) {
	raw, ok := rec[d.name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownField, d.name)
	}

	subs, ok := raw.([]Record)
	if !ok {
		return nil, fmt.Errorf("%w: field %q holds %T, want []Record", errs.ErrFieldTypeMismatch, d.name, raw)
	}
	if len(subs) != d.count {
		return nil, fmt.Errorf("%w: field %q has %d sub-records, schema fixes %d",
			errs.ErrRepeatCountMismatch, d.name, len(subs), d.count)
	}

	return subs, nil
}

// expandRecord re-nests a flat value list against the descriptors,
// consuming values in the same depth-first order flattenRecord produced
// them. It returns the unconsumed remainder for the caller to verify.
func expandRecord(flat []uint64, descriptors []FieldDescriptor) (Record, []uint64, error) {
	rec := make(Record, len(descriptors))
	for _, d := range descriptors {
		switch d.kind {
		case kindComposite:
			subs := make([]Record, d.count)
			for i := 0; i < d.count; i++ {
				sub, rest, err := expandRecord(flat, d.nested)
				if err != nil {
					return nil, nil, err
				}
				subs[i] = sub
				flat = rest
			}
			rec[d.name] = subs
		default:
			if len(flat) == 0 {
				return nil, nil, fmt.Errorf("%w: ran out of values at field %q", errs.ErrTruncatedInput, d.name)
			}
			rec[d.name] = flat[0]
			flat = flat[1:]
		}
	}

	return rec, flat, nil
}
