// Package bitstream packs lists of (value, bit-width) fields into a
// single MSB-first bit sequence and slices them back out.
//
// Each field contributes exactly its declared bit-width: the value's
// big-endian binary representation, left-padded with zero bits. Field
// order is significant; the width list is the implicit schema that lets
// the reader re-slice the sequence.
//
// Values are handled as unsigned 64-bit integers end to end. Nothing in
// this package accumulates through floating point, so wide values never
// lose precision.
package bitstream

import (
	"fmt"
	"math/bits"

	"github.com/kverlio/glyphpack/errs"
)

// MaxWidth is the widest supported field, in bits.
const MaxWidth = 64

// Field is a non-negative integer value with a declared bit-width.
// The encode-time invariant is 0 <= Value < 2^Width.
type Field struct {
	Value uint64
	Width int
}

// BitsRequired returns the number of bits needed to represent v, with a
// minimum of 1 so that a zero-valued field still occupies a slot.
func BitsRequired(v uint64) int {
	if v == 0 {
		return 1
	}

	return bits.Len64(v)
}

// CheckField validates a single field against the encode invariant.
//
// Returns:
//   - error: ErrInvalidBitWidth if the width is outside 1..64,
//     ErrValueOutOfRange if the value does not fit the width.
func CheckField(f Field) error {
	if f.Width < 1 || f.Width > MaxWidth {
		return fmt.Errorf("%w: %d", errs.ErrInvalidBitWidth, f.Width)
	}
	if f.Width < MaxWidth && f.Value >= uint64(1)<<uint(f.Width) {
		return fmt.Errorf("%w: value %d needs %d bits, field declares %d",
			errs.ErrValueOutOfRange, f.Value, BitsRequired(f.Value), f.Width)
	}

	return nil
}

// Writer accumulates an MSB-first bit sequence. Bit i of the sequence is
// stored in byte i/8 at bit position 7-(i%8), so the byte slice read as a
// big-endian integer equals the bit sequence.
type Writer struct {
	buf    []byte
	bitLen int
}

// NewWriter creates a Writer with capacity for the given number of bits.
func NewWriter(bitCapacity int) *Writer {
	return &Writer{buf: make([]byte, 0, (bitCapacity+7)/8)}
}

// WriteBits appends the lowest width bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, width int) error {
	if err := CheckField(Field{Value: v, Width: width}); err != nil {
		return err
	}

	for i := width - 1; i >= 0; i-- {
		if w.bitLen%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if (v>>uint(i))&1 == 1 {
			w.buf[len(w.buf)-1] |= 1 << uint(7-w.bitLen%8)
		}
		w.bitLen++
	}

	return nil
}

// Bytes returns the packed sequence. The final byte is zero-padded on the
// right when BitLen is not a multiple of 8.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.bitLen
}

// Reader re-slices an MSB-first bit sequence.
type Reader struct {
	data   []byte
	bitLen int
	pos    int
}

// NewReader creates a Reader over the first bitLen bits of data.
func NewReader(data []byte, bitLen int) *Reader {
	if max := len(data) * 8; bitLen > max {
		bitLen = max
	}

	return &Reader{data: data, bitLen: bitLen}
}

// ReadBits consumes width bits and returns them as an unsigned integer.
//
// Returns:
//   - uint64: The extracted value.
//   - error: ErrInvalidBitWidth for widths outside 1..64,
//     ErrTruncatedInput when fewer than width bits remain.
func (r *Reader) ReadBits(width int) (uint64, error) {
	if width < 1 || width > MaxWidth {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidBitWidth, width)
	}
	if r.pos+width > r.bitLen {
		return 0, fmt.Errorf("%w: need %d bits, %d remain", errs.ErrTruncatedInput, width, r.bitLen-r.pos)
	}

	var v uint64
	for i := 0; i < width; i++ {
		b := r.data[r.pos/8] >> uint(7-r.pos%8) & 1
		v = v<<1 | uint64(b)
		r.pos++
	}

	return v, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.bitLen - r.pos
}

// Pack concatenates the fields into one bit sequence in field order.
//
// Returns:
//   - *Writer: The packed sequence.
//   - error: Field validation errors from CheckField.
func Pack(fields []Field) (*Writer, error) {
	total := 0
	for _, f := range fields {
		total += f.Width
	}

	w := NewWriter(total)
	for i, f := range fields {
		if err := w.WriteBits(f.Value, f.Width); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}

	return w, nil
}

// PackValues packs parallel value and width lists.
//
// Returns:
//   - *Writer: The packed sequence.
//   - error: ErrWidthMismatch when the lists differ in length, otherwise
//     field validation errors.
func PackValues(values []uint64, widths []int) (*Writer, error) {
	if len(values) != len(widths) {
		return nil, fmt.Errorf("%w: %d values, %d widths", errs.ErrWidthMismatch, len(values), len(widths))
	}

	w := NewWriter(sumWidths(widths))
	for i, v := range values {
		if err := w.WriteBits(v, widths[i]); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}

	return w, nil
}

// Unpack re-slices a packed sequence using the same widths, in the same
// order, that produced it.
//
// Returns:
//   - []uint64: The extracted values, one per width.
//   - error: ErrTruncatedInput when the sequence is shorter than the sum
//     of widths, ErrInvalidBitWidth for an unusable width.
func Unpack(data []byte, widths []int) ([]uint64, error) {
	r := NewReader(data, len(data)*8)

	values := make([]uint64, len(widths))
	for i, width := range widths {
		v, err := r.ReadBits(width)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		values[i] = v
	}

	return values, nil
}

func sumWidths(widths []int) int {
	total := 0
	for _, w := range widths {
		if w > 0 {
			total += w
		}
	}

	return total
}

// SumWidths validates a width list and returns the total bit count.
func SumWidths(widths []int) (int, error) {
	total := 0
	for i, w := range widths {
		if w < 1 || w > MaxWidth {
			return 0, fmt.Errorf("width %d: %w: %d", i, errs.ErrInvalidBitWidth, w)
		}
		total += w
	}

	return total, nil
}
