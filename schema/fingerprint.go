package schema

import (
	"fmt"
	"strings"

	"github.com/kverlio/glyphpack/internal/hash"
)

// Fingerprint returns a 64-bit identifier of the schema's structure:
// descriptor order, names, leaf maxima and composite repeat counts.
//
// Two endpoints that construct the same schema compute the same
// fingerprint, so a caller can verify schema agreement out of band
// without embedding the schema in every payload.
func (s *Schema) Fingerprint() uint64 {
	var sb strings.Builder
	writeCanonical(&sb, s.descriptors)

	return hash.ID(sb.String())
}

// writeCanonical renders the descriptor tree in a stable textual form.
func writeCanonical(sb *strings.Builder, descriptors []FieldDescriptor) {
	for _, d := range descriptors {
		switch d.kind {
		case kindComposite:
			fmt.Fprintf(sb, "c(%s,%d,[", d.name, d.count)
			writeCanonical(sb, d.nested)
			sb.WriteString("]);")
		default:
			fmt.Fprintf(sb, "l(%s,%d);", d.name, d.maxValue)
		}
	}
}
