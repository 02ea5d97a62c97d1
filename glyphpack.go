// Package glyphpack provides a compact, text-safe codec for sequences of
// bounded-range integers.
//
// Glyphpack turns a list of non-negative integers plus their bit-widths
// into a short opaque string over a 70-glyph alphabet, and back, with
// exact round-trip fidelity. The alphabet avoids vowels, visually
// ambiguous characters and the wire format's own reserved glyphs, so
// payloads travel safely through chat messages, URLs and other
// text-only channels.
//
// # Wire formats
//
// Three formats share the payload space, told apart by the first glyph:
//
//   - Compact: every field packed into one bit sequence and base-N
//     encoded as a single integer. Densest form; the bit-width list is
//     the caller's contract and does not travel with the payload.
//   - Direct ('E' prefix): each field encoded independently at a fixed
//     glyph width, with a metadata header mapping bit-widths to glyph
//     counts. Self-describing and immune to precision limits.
//   - Complex ('C' prefix): the schema layer's envelope for nested
//     records with dynamically sized values.
//
// A per-payload selector routes between compact and direct based on
// field count, widths and magnitudes.
//
// # Basic usage
//
// Encoding and decoding a field list:
//
//	values := []uint64{2, 7, 455}
//	widths := []int{2, 4, 12}
//
//	payload, _ := glyphpack.EncodeFields(values, widths)
//	decoded, _ := glyphpack.DecodeFields(payload, widths)
//
// Named records through a schema:
//
//	s, _ := glyphpack.NewSchema([]schema.FieldDescriptor{
//	    glyphpack.Leaf("alliance", 3),
//	    glyphpack.Leaf("race", 12),
//	    glyphpack.Leaf("cpLevel", 4000),
//	})
//
//	payload, _ := s.Encode(schema.Record{"alliance": 2, "race": 7, "cpLevel": 455})
//	rec, _ := s.Decode(payload)
//
// # Package structure
//
// This package is a convenience facade over the payload and schema
// packages, bound to a codec with default settings. For custom
// alphabets, selector thresholds or trace observers, construct a codec
// with NewCodec and use it directly.
package glyphpack

import (
	"github.com/kverlio/glyphpack/payload"
	"github.com/kverlio/glyphpack/schema"
)

// defaultCodec backs the package-level functions. It carries no observer
// and the standard selector thresholds; it holds no per-call state, so
// sharing it across goroutines is safe.
var defaultCodec = func() *payload.Codec {
	c, err := payload.New()
	if err != nil {
		panic(err)
	}

	return c
}()

// NewCodec creates a codec with custom options.
//
// Available options:
//   - payload.WithAlphabet(a): a custom data alphabet
//   - payload.WithObserver(obs): a trace observer for routing events
//   - payload.WithCompactLimits(l): custom selector thresholds
//
// Returns:
//   - *payload.Codec: The configured codec.
//   - error: An error if an option rejects its setting.
//
// Example:
//
//	c, err := glyphpack.NewCodec(
//	    payload.WithObserver(trace.Zerolog(logger)),
//	)
func NewCodec(opts ...payload.Option) (*payload.Codec, error) {
	return payload.New(opts...)
}

// EncodeFields encodes values against their parallel bit-width list with
// the default codec.
//
// Every value must satisfy 0 <= value < 2^width for its declared width;
// a violation is an encode-time error, never a silent truncation. The
// same width list, in the same order, must be passed to DecodeFields.
func EncodeFields(values []uint64, widths []int) (string, error) {
	return defaultCodec.EncodeFields(values, widths)
}

// DecodeFields decodes a payload produced by EncodeFields against the
// same bit-width list, with the default codec.
func DecodeFields(payloadStr string, widths []int) ([]uint64, error) {
	return defaultCodec.DecodeFields(payloadStr, widths)
}

// EncodeInteger encodes a single integer as a base-N string against the
// default alphabet. Value 0 encodes as the single zero glyph.
func EncodeInteger(v uint64) string {
	return defaultCodec.EncodeInteger(v)
}

// DecodeInteger decodes a base-N string produced by EncodeInteger.
func DecodeInteger(s string) (uint64, error) {
	return defaultCodec.DecodeInteger(s)
}

// NewSchema builds a schema over an ordered descriptor list.
//
// A schema of only Leaf descriptors runs in simple mode: bit-widths are
// fixed once from the leaf maxima and payloads use the compact or direct
// format. A schema containing a Composite runs in complex mode and emits
// the self-describing 'C' envelope.
//
// Returns:
//   - *schema.Schema: The constructed schema.
//   - error: An error if the descriptor tree is malformed.
//
// Example:
//
//	s, err := glyphpack.NewSchema([]schema.FieldDescriptor{
//	    glyphpack.Leaf("version", 15),
//	    glyphpack.Composite("party", 14,
//	        glyphpack.Leaf("class", 12),
//	        glyphpack.Leaf("level", 60),
//	    ),
//	})
func NewSchema(descriptors []schema.FieldDescriptor, opts ...schema.Option) (*schema.Schema, error) {
	return schema.New(descriptors, opts...)
}

// Leaf describes a named integer field with an inclusive maximum value.
func Leaf(name string, maxValue uint64) schema.FieldDescriptor {
	return schema.Leaf(name, maxValue)
}

// Composite describes a named field holding exactly count repetitions of
// the nested sub-schema.
func Composite(name string, count int, nested ...schema.FieldDescriptor) schema.FieldDescriptor {
	return schema.Composite(name, count, nested...)
}
