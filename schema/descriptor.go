package schema

import (
	"fmt"

	"github.com/kverlio/glyphpack/errs"
)

// maxNestingDepth bounds the descriptor tree. Composite fan-out is fixed
// per level, so payloads stay finite; the depth bound keeps flatten and
// expand recursion bounded too.
const maxNestingDepth = 8

type descriptorKind uint8

const (
	kindLeaf descriptorKind = iota + 1
	kindComposite
)

// FieldDescriptor describes one named field of a record: either a leaf
// holding a bounded integer, or a composite holding a fixed number of
// nested sub-records.
//
// Descriptors are a tagged variant: every consumer switches exhaustively
// on the kind, so adding a kind fails loudly at each switch rather than
// falling into a default branch.
type FieldDescriptor struct {
	name     string
	kind     descriptorKind
	maxValue uint64
	count    int
	nested   []FieldDescriptor
}

// Leaf describes a named integer field with an inclusive maximum value.
// The field's bit-width is derived from the maximum at schema
// construction time.
func Leaf(name string, maxValue uint64) FieldDescriptor {
	return FieldDescriptor{
		name:     name,
		kind:     kindLeaf,
		maxValue: maxValue,
	}
}

// Composite describes a named field holding exactly count repetitions of
// the nested sub-schema. The repeat count is part of the schema, never of
// the payload.
func Composite(name string, count int, nested ...FieldDescriptor) FieldDescriptor {
	return FieldDescriptor{
		name:   name,
		kind:   kindComposite,
		count:  count,
		nested: nested,
	}
}

// Name returns the descriptor's field name.
func (d FieldDescriptor) Name() string {
	return d.name
}

// IsComposite reports whether the descriptor nests a sub-schema.
func (d FieldDescriptor) IsComposite() bool {
	return d.kind == kindComposite
}

// validateDescriptors checks one nesting level and recurses into
// composites.
func validateDescriptors(descriptors []FieldDescriptor, depth int) error {
	if len(descriptors) == 0 {
		return errs.ErrEmptySchema
	}
	if depth > maxNestingDepth {
		return fmt.Errorf("%w: nesting deeper than %d levels", errs.ErrInvalidDescriptor, maxNestingDepth)
	}

	seen := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if d.name == "" {
			return fmt.Errorf("%w: blank field name", errs.ErrInvalidDescriptor)
		}
		if _, dup := seen[d.name]; dup {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateFieldName, d.name)
		}
		seen[d.name] = struct{}{}

		switch d.kind {
		case kindLeaf:
			// Any maximum is representable; nothing further to check.
		case kindComposite:
			if d.count < 1 {
				return fmt.Errorf("%w: composite %q has repeat count %d", errs.ErrInvalidDescriptor, d.name, d.count)
			}
			if err := validateDescriptors(d.nested, depth+1); err != nil {
				return fmt.Errorf("composite %q: %w", d.name, err)
			}
		default:
			return fmt.Errorf("%w: %q was not built with Leaf or Composite", errs.ErrInvalidDescriptor, d.name)
		}
	}

	return nil
}

// hasComposite reports whether any descriptor in the tree is composite.
func hasComposite(descriptors []FieldDescriptor) bool {
	for _, d := range descriptors {
		if d.kind == kindComposite {
			return true
		}
	}

	return false
}

// flatLeafCount returns the number of leaf values one record of this
// descriptor list flattens to.
func flatLeafCount(descriptors []FieldDescriptor) int {
	n := 0
	for _, d := range descriptors {
		switch d.kind {
		case kindComposite:
			n += d.count * flatLeafCount(d.nested)
		default:
			n++
		}
	}

	return n
}
