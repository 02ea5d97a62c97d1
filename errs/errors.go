// Package errs defines the sentinel errors returned by glyphpack.
//
// Call sites wrap these with fmt.Errorf("%w: ...") to add context, so
// callers can match on the sentinel with errors.Is while still seeing
// the details of the specific failure.
package errs

import "errors"

// Alphabet and radix errors.
var (
	// ErrInvalidGlyph indicates a decoded string contains a character
	// outside the codec's alphabet.
	ErrInvalidGlyph = errors.New("invalid glyph")

	// ErrInvalidAlphabet indicates an alphabet definition is unusable:
	// too few glyphs, duplicate glyphs, or glyphs reserved by the wire
	// format (format discriminators and metadata separators).
	ErrInvalidAlphabet = errors.New("invalid alphabet")

	// ErrValueTooWide indicates a fixed-width encoding was asked to fit a
	// value into fewer glyphs than its natural encoding needs.
	ErrValueTooWide = errors.New("value too wide for digit count")
)

// Bit packing errors.
var (
	// ErrWidthMismatch indicates the value list and bit-width list passed
	// to an encode or decode call differ in length.
	ErrWidthMismatch = errors.New("value/width list length mismatch")

	// ErrValueOutOfRange indicates a field value does not fit in its
	// declared bit-width. This is always an encode-time failure, never a
	// silent truncation.
	ErrValueOutOfRange = errors.New("value out of range for bit-width")

	// ErrInvalidBitWidth indicates a declared bit-width is outside the
	// supported 1..64 range.
	ErrInvalidBitWidth = errors.New("invalid bit-width")

	// ErrTruncatedInput indicates a bit sequence ended before the declared
	// bit-widths were satisfied.
	ErrTruncatedInput = errors.New("truncated input")
)

// Wire format errors.
var (
	// ErrMissingMetadataSeparator indicates a direct-format payload has no
	// colon separating the metadata header from the data segment.
	ErrMissingMetadataSeparator = errors.New("missing metadata separator")

	// ErrUnparsableFieldCount indicates the field count in a direct-format
	// metadata header is not a decimal numeral.
	ErrUnparsableFieldCount = errors.New("unparsable field count")

	// ErrMalformedMetadata indicates a direct-format metadata segment does
	// not follow the -<width>:<digits> shape.
	ErrMalformedMetadata = errors.New("malformed metadata segment")

	// ErrDataTooShort indicates a payload's data segment is shorter than
	// the field widths declared for it.
	ErrDataTooShort = errors.New("data segment too short")

	// ErrFieldCountMismatch indicates a self-describing payload declares a
	// different number of fields than the caller's bit-width list.
	ErrFieldCountMismatch = errors.New("field count mismatch")

	// ErrUnknownFormatDiscriminator indicates a payload's leading glyph
	// matches no recognized wire format.
	ErrUnknownFormatDiscriminator = errors.New("unknown format discriminator")

	// ErrComplexPayload indicates a complex-schema envelope was passed to
	// the field-list decoder; those payloads must be decoded through the
	// schema that produced them.
	ErrComplexPayload = errors.New("complex-schema payload requires schema decode")
)

// Schema errors.
var (
	// ErrEmptySchema indicates a schema was constructed with no
	// descriptors, or a composite descriptor with an empty nested schema.
	ErrEmptySchema = errors.New("empty schema")

	// ErrDuplicateFieldName indicates two descriptors at the same nesting
	// level share a name.
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrInvalidDescriptor indicates a descriptor is malformed: blank
	// name, non-positive composite count, or excessive nesting depth.
	ErrInvalidDescriptor = errors.New("invalid field descriptor")

	// ErrUnknownField indicates a record is missing a value for a named
	// descriptor, or carries a value of the wrong shape.
	ErrUnknownField = errors.New("unknown or missing field")

	// ErrFieldTypeMismatch indicates a record value has the wrong dynamic
	// type for its descriptor (integer expected for a leaf, []Record for
	// a composite).
	ErrFieldTypeMismatch = errors.New("field type mismatch")

	// ErrWidthOverflow indicates a complex-mode value exceeds the 16-bit
	// value slot of the interleaved wire format. The wire format is kept
	// for compatibility; the overflow is rejected instead of truncated.
	ErrWidthOverflow = errors.New("value exceeds complex-mode 16-bit limit")

	// ErrRepeatCountMismatch indicates a composite field's sub-record
	// slice length differs from the schema's fixed repeat count.
	ErrRepeatCountMismatch = errors.New("repeat count mismatch")
)
