package payload

import "github.com/kverlio/glyphpack/format"

// CompactLimits are the selector thresholds under which a field list uses
// the compact bit-packed format. A payload exceeding any of them routes
// to the direct format, whose per-field encoding keeps the arithmetic
// bounded no matter how many fields arrive or how wide they are.
type CompactLimits struct {
	// MaxFields is the largest field count the compact format accepts.
	MaxFields int
	// MaxWidth is the widest individual field, in bits.
	MaxWidth int
	// MaxValue is the largest individual field value.
	MaxValue uint64
}

// DefaultCompactLimits returns the standard thresholds: at most 50
// fields, no field wider than 20 bits, no value above 100,000.
func DefaultCompactLimits() CompactLimits {
	return CompactLimits{
		MaxFields: 50,
		MaxWidth:  20,
		MaxValue:  100_000,
	}
}

// selectKind chooses the wire format for a validated field list.
func (c *Codec) selectKind(values []uint64, widths []int) format.Kind {
	if len(values) > c.limits.MaxFields {
		return format.KindDirect
	}
	for _, w := range widths {
		if w > c.limits.MaxWidth {
			return format.KindDirect
		}
	}
	for _, v := range values {
		if v > c.limits.MaxValue {
			return format.KindDirect
		}
	}

	return format.KindCompact
}
