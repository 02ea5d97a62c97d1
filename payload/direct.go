package payload

import (
	"fmt"
	"strings"

	"github.com/kverlio/glyphpack/bitstream"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/internal/pool"
	"github.com/kverlio/glyphpack/radix"
	"github.com/kverlio/glyphpack/section"
)

// encodeDirect emits the self-describing fixed-width format: a metadata
// header mapping each distinct bit-width to its glyph count, one final
// colon, then every field encoded at its width's fixed glyph count,
// concatenated in field order with no separators.
func (c *Codec) encodeDirect(values []uint64, widths []int) (string, error) {
	h := section.NewDirectHeader(c.alpha, widths)

	buf := pool.GetScratch()
	defer pool.PutScratch(buf)

	data := *buf
	for i, v := range values {
		s, err := radix.EncodeFixedUint(c.alpha, v, h.Digits[widths[i]])
		if err != nil {
			return "", fmt.Errorf("field %d: %w", i, err)
		}
		data = append(data, s...)
	}
	*buf = data

	var sb strings.Builder
	header := h.String()
	sb.Grow(len(header) + 1 + len(data))
	sb.WriteString(header)
	sb.WriteByte(':')
	sb.Write(data)

	return sb.String(), nil
}

// decodeDirect reverses encodeDirect.
//
// The metadata header itself contains colons, so the data segment starts
// after the LAST colon in the payload. Every failure is hard: no partial
// field list is ever returned.
func (c *Codec) decodeDirect(payload string, widths []int) ([]uint64, error) {
	sep := strings.LastIndexByte(payload, ':')
	if sep < 0 {
		return nil, fmt.Errorf("%w: payload %q", errs.ErrMissingMetadataSeparator, payload)
	}

	h, err := section.ParseDirectHeader(payload[:sep])
	if err != nil {
		return nil, err
	}
	if h.FieldCount != len(widths) {
		return nil, fmt.Errorf("%w: payload declares %d fields, width list has %d",
			errs.ErrFieldCountMismatch, h.FieldCount, len(widths))
	}

	data := payload[sep+1:]
	values := make([]uint64, len(widths))
	offset := 0
	for i, width := range widths {
		digits := h.DigitsFor(c.alpha, width)
		if offset+digits > len(data) {
			return nil, fmt.Errorf("%w: field %d needs glyphs %d..%d, data segment has %d",
				errs.ErrDataTooShort, i, offset, offset+digits, len(data))
		}

		v, err := radix.DecodeFixedUint(c.alpha, data[offset:offset+digits])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		if err := bitstream.CheckField(bitstream.Field{Value: v, Width: width}); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}

		values[i] = v
		offset += digits
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d glyphs of trailing data", errs.ErrFieldCountMismatch, len(data)-offset)
	}

	return values, nil
}
