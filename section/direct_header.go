// Package section defines the structured segments embedded in
// self-describing glyphpack payloads.
package section

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kverlio/glyphpack/alphabet"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/format"
	"github.com/kverlio/glyphpack/radix"
)

// DirectHeader is the metadata header of the direct (large-value) wire
// format. It records the field count and, for each distinct bit-width in
// the payload, the fixed glyph count its fields occupy.
//
// On the wire the header reads:
//
//	E<fieldCount>-<width>:<digits>-<width>:<digits>...
//
// with widths in ascending order for determinism. Widths and digit counts
// are decimal numerals, so the colons inside the header are unambiguous;
// the payload assembler appends one final colon to separate the header
// from the data segment.
type DirectHeader struct {
	// FieldCount is the number of fields in the data segment.
	FieldCount int
	// Digits maps each distinct bit-width to its glyph count.
	Digits map[int]int
}

// NewDirectHeader derives a header for the given field widths, computing
// the minimal glyph count per distinct width against the alphabet.
func NewDirectHeader(a *alphabet.Alphabet, widths []int) DirectHeader {
	h := DirectHeader{
		FieldCount: len(widths),
		Digits:     make(map[int]int),
	}
	for _, w := range widths {
		if _, ok := h.Digits[w]; !ok {
			h.Digits[w] = radix.DigitsForBits(a, w)
		}
	}

	return h
}

// String serializes the header, widths ascending.
func (h DirectHeader) String() string {
	widths := make([]int, 0, len(h.Digits))
	for w := range h.Digits {
		widths = append(widths, w)
	}
	sort.Ints(widths)

	var sb strings.Builder
	sb.WriteByte(format.DiscriminatorDirect)
	sb.WriteString(strconv.Itoa(h.FieldCount))
	for _, w := range widths {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(w))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(h.Digits[w]))
	}

	return sb.String()
}

// DigitsFor returns the glyph count for the given bit-width.
//
// A width missing from the table falls back to the same ceil formula the
// encoder uses. The fallback is a compatibility guard for truncated or
// older metadata, not a normal path: a well-formed header maps every
// width its payload contains.
func (h DirectHeader) DigitsFor(a *alphabet.Alphabet, width int) int {
	if d, ok := h.Digits[width]; ok {
		return d
	}

	return radix.DigitsForBits(a, width)
}

// ParseDirectHeader parses the metadata segment of a direct payload (the
// part before the final colon, discriminator included).
//
// Returns:
//   - DirectHeader: The parsed header.
//   - error: ErrUnknownFormatDiscriminator when the segment does not
//     start with 'E', ErrUnparsableFieldCount when the field count is not
//     a decimal numeral, ErrMalformedMetadata for a broken width table.
func ParseDirectHeader(meta string) (DirectHeader, error) {
	if meta == "" || meta[0] != format.DiscriminatorDirect {
		return DirectHeader{}, fmt.Errorf("%w: metadata %q lacks the direct discriminator",
			errs.ErrUnknownFormatDiscriminator, meta)
	}
	meta = meta[1:]

	countEnd := strings.IndexByte(meta, '-')
	countStr := meta
	rest := ""
	if countEnd >= 0 {
		countStr = meta[:countEnd]
		rest = meta[countEnd+1:]
	}

	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return DirectHeader{}, fmt.Errorf("%w: %q", errs.ErrUnparsableFieldCount, countStr)
	}

	h := DirectHeader{FieldCount: count, Digits: make(map[int]int)}
	if rest == "" {
		return h, nil
	}

	for _, seg := range strings.Split(rest, "-") {
		width, digits, err := parseWidthSegment(seg)
		if err != nil {
			return DirectHeader{}, err
		}
		h.Digits[width] = digits
	}

	return h, nil
}

func parseWidthSegment(seg string) (width, digits int, err error) {
	colon := strings.IndexByte(seg, ':')
	if colon < 0 {
		return 0, 0, fmt.Errorf("%w: segment %q has no colon", errs.ErrMalformedMetadata, seg)
	}

	width, err = strconv.Atoi(seg[:colon])
	if err != nil || width < 1 {
		return 0, 0, fmt.Errorf("%w: bad bit-width in segment %q", errs.ErrMalformedMetadata, seg)
	}

	digits, err = strconv.Atoi(seg[colon+1:])
	if err != nil || digits < 1 {
		return 0, 0, fmt.Errorf("%w: bad digit count in segment %q", errs.ErrMalformedMetadata, seg)
	}

	return width, digits, nil
}
