// Package format identifies glyphpack wire formats.
//
// A payload's first character decides its format exactly once, at decode
// entry; each kind then dispatches to a single handler. There is no
// try-one-format-then-fall-back chain, so a malformed payload surfaces as
// an error instead of being silently reinterpreted.
package format

// Kind identifies one of the three wire formats.
type Kind uint8

const (
	// KindCompact is the bit-packed format: all fields concatenated into
	// one bit sequence and base-N encoded as a single integer. It has no
	// discriminator glyph; the data alphabet excludes the discriminators,
	// so any payload starting with a data glyph is compact.
	KindCompact Kind = 0x1

	// KindDirect is the self-describing fixed-width format with a
	// metadata header, discriminated by a leading 'E'.
	KindDirect Kind = 0x2

	// KindComplex is the schema envelope for dynamically-sized nested
	// records, discriminated by a leading 'C'.
	KindComplex Kind = 0x3

	// KindUnknown marks an empty payload; decoders reject it.
	KindUnknown Kind = 0x0
)

// Wire discriminator glyphs. They are reserved: no data alphabet may
// contain them.
const (
	DiscriminatorDirect  byte = 'E'
	DiscriminatorComplex byte = 'C'
)

func (k Kind) String() string {
	switch k {
	case KindCompact:
		return "Compact"
	case KindDirect:
		return "Direct"
	case KindComplex:
		return "Complex"
	default:
		return "Unknown"
	}
}

// Detect resolves the wire format of a payload from its first glyph.
// An empty payload yields KindUnknown.
func Detect(payload string) Kind {
	if payload == "" {
		return KindUnknown
	}

	switch payload[0] {
	case DiscriminatorDirect:
		return KindDirect
	case DiscriminatorComplex:
		return KindComplex
	default:
		return KindCompact
	}
}
