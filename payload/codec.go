// Package payload implements the glyphpack codec engine: it turns lists
// of bounded-range integers into opaque strings over a glyph alphabet and
// back.
//
// Two wire formats carry field lists. The compact format packs every
// field into one bit sequence and base-N encodes it as a single integer;
// it is the densest form but its bit-width list lives outside the payload
// (the caller supplies the same list to encode and decode). The direct
// format encodes each field independently at a fixed glyph width and
// embeds a metadata header describing those widths, which keeps per-field
// precision bounded no matter how wide the payload grows. A per-call
// selector routes between them.
//
// A Codec holds only immutable configuration (alphabet, observer,
// selector limits); every encode and decode call is pure with call-local
// scratch state, so one Codec may serve any number of goroutines.
package payload

import (
	"fmt"

	"github.com/kverlio/glyphpack/alphabet"
	"github.com/kverlio/glyphpack/bitstream"
	"github.com/kverlio/glyphpack/errs"
	"github.com/kverlio/glyphpack/format"
	"github.com/kverlio/glyphpack/internal/options"
	"github.com/kverlio/glyphpack/radix"
	"github.com/kverlio/glyphpack/trace"
)

// Codec encodes and decodes integer field lists.
type Codec struct {
	alpha  *alphabet.Alphabet
	obs    trace.Observer
	limits CompactLimits
}

// Option configures a Codec.
type Option = options.Option[*Codec]

// WithAlphabet sets a custom data alphabet.
func WithAlphabet(a *alphabet.Alphabet) Option {
	return func(c *Codec) error {
		if a == nil {
			return fmt.Errorf("%w: nil alphabet", errs.ErrInvalidAlphabet)
		}
		c.alpha = a

		return nil
	}
}

// WithObserver injects a trace observer. The default discards all events.
func WithObserver(obs trace.Observer) Option {
	return options.NoError(func(c *Codec) {
		if obs != nil {
			c.obs = obs
		}
	})
}

// WithCompactLimits overrides the selector thresholds.
func WithCompactLimits(limits CompactLimits) Option {
	return func(c *Codec) error {
		if limits.MaxFields < 1 || limits.MaxWidth < 1 || limits.MaxWidth > bitstream.MaxWidth {
			return fmt.Errorf("%w: compact limits %+v", errs.ErrInvalidBitWidth, limits)
		}
		c.limits = limits

		return nil
	}
}

// New creates a Codec.
//
// Defaults: the built-in 70-glyph alphabet, no observer, and the standard
// selector thresholds (DefaultCompactLimits).
//
// Returns:
//   - *Codec: The configured codec.
//   - error: An error if an option rejects its setting.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		alpha:  alphabet.Default(),
		obs:    trace.Nop(),
		limits: DefaultCompactLimits(),
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// Alphabet returns the codec's data alphabet.
func (c *Codec) Alphabet() *alphabet.Alphabet {
	return c.alpha
}

// EncodeFields encodes the values against their parallel bit-width list
// into one opaque payload string.
//
// The width list is the implicit schema: decode must receive the
// identical list, in the same order.
//
// Returns:
//   - string: The encoded payload.
//   - error: ErrWidthMismatch when the lists differ in length,
//     ErrInvalidBitWidth for a width outside 1..64, ErrValueOutOfRange
//     when a value does not fit its declared width.
func (c *Codec) EncodeFields(values []uint64, widths []int) (string, error) {
	if len(values) != len(widths) {
		return "", fmt.Errorf("%w: %d values, %d widths", errs.ErrWidthMismatch, len(values), len(widths))
	}

	totalBits, err := bitstream.SumWidths(widths)
	if err != nil {
		return "", err
	}
	for i, v := range values {
		if err := bitstream.CheckField(bitstream.Field{Value: v, Width: widths[i]}); err != nil {
			return "", fmt.Errorf("field %d: %w", i, err)
		}
	}

	kind := c.selectKind(values, widths)
	c.obs.Event("encode.route", "format", kind.String(), "fields", len(values), "total_bits", totalBits)

	var out string
	switch kind {
	case format.KindCompact:
		out, err = c.encodeCompact(values, widths, totalBits)
		if err == nil && len(out) > radix.DigitsForBits(c.alpha, totalBits) {
			// Length sanity check: a compact payload may not exceed the
			// glyph budget of its own bit count.
			c.obs.Event("encode.reroute", "format", format.KindDirect.String())
			out, err = c.encodeDirect(values, widths)
		}
	default:
		out, err = c.encodeDirect(values, widths)
	}
	if err != nil {
		return "", err
	}

	c.obs.Event("encode.done", "payload_len", len(out))

	return out, nil
}

// DecodeFields decodes a payload produced by EncodeFields against the
// same bit-width list.
//
// The wire format is resolved once from the payload's first glyph and
// dispatched to exactly one handler.
//
// Returns:
//   - []uint64: The decoded values, one per width.
//   - error: ErrTruncatedInput for an empty payload, ErrComplexPayload
//     for a complex-schema envelope, or the handler's decode errors.
func (c *Codec) DecodeFields(payloadStr string, widths []int) ([]uint64, error) {
	if _, err := bitstream.SumWidths(widths); err != nil {
		return nil, err
	}

	kind := format.Detect(payloadStr)
	c.obs.Event("decode.route", "format", kind.String(), "payload_len", len(payloadStr), "fields", len(widths))

	switch kind {
	case format.KindUnknown:
		return nil, fmt.Errorf("%w: empty payload", errs.ErrTruncatedInput)
	case format.KindComplex:
		return nil, fmt.Errorf("%w: payload %q", errs.ErrComplexPayload, payloadStr)
	case format.KindDirect:
		return c.decodeDirect(payloadStr, widths)
	default:
		return c.decodeCompact(payloadStr, widths)
	}
}

// EncodeInteger encodes a single integer as a base-N string. Value 0
// encodes as the single zero glyph.
func (c *Codec) EncodeInteger(v uint64) string {
	return radix.EncodeUint(c.alpha, v)
}

// DecodeInteger decodes a base-N string produced by EncodeInteger.
func (c *Codec) DecodeInteger(s string) (uint64, error) {
	return radix.DecodeUint(c.alpha, s)
}
