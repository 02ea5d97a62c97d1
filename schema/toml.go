package schema

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kverlio/glyphpack/errs"
)

// tomlField is the TOML shape of one descriptor. A leaf declares max; a
// composite declares count and nested [[field.field]] tables. The two
// are mutually exclusive.
type tomlField struct {
	Name   string      `toml:"name"`
	Max    *uint64     `toml:"max"`
	Count  *int        `toml:"count"`
	Fields []tomlField `toml:"field"`
}

type tomlSchema struct {
	Fields []tomlField `toml:"field"`
}

// ParseTOML builds a descriptor list from a TOML document of the form:
//
//	[[field]]
//	name = "alliance"
//	max = 2
//
//	[[field]]
//	name = "party"
//	count = 14
//
//	  [[field.field]]
//	  name = "race"
//	  max = 7
//
// Returns:
//   - []FieldDescriptor: The parsed descriptors, ready for New.
//   - error: TOML syntax errors, or ErrInvalidDescriptor for a table that
//     declares neither a leaf maximum nor a composite body.
func ParseTOML(data []byte) ([]FieldDescriptor, error) {
	var doc tomlSchema
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema toml: %w", err)
	}

	return convertTOMLFields(doc.Fields)
}

// LoadTOML reads and parses a TOML schema file.
func LoadTOML(path string) ([]FieldDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	return ParseTOML(data)
}

func convertTOMLFields(fields []tomlField) ([]FieldDescriptor, error) {
	descriptors := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		d, err := convertTOMLField(f)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func convertTOMLField(f tomlField) (FieldDescriptor, error) {
	isLeaf := f.Max != nil
	isComposite := f.Count != nil || len(f.Fields) > 0

	switch {
	case isLeaf && isComposite:
		return FieldDescriptor{}, fmt.Errorf("%w: field %q declares both max and a composite body",
			errs.ErrInvalidDescriptor, f.Name)
	case isLeaf:
		return Leaf(f.Name, *f.Max), nil
	case isComposite:
		if f.Count == nil {
			return FieldDescriptor{}, fmt.Errorf("%w: composite field %q has no count",
				errs.ErrInvalidDescriptor, f.Name)
		}
		nested, err := convertTOMLFields(f.Fields)
		if err != nil {
			return FieldDescriptor{}, fmt.Errorf("composite %q: %w", f.Name, err)
		}

		return Composite(f.Name, *f.Count, nested...), nil
	default:
		return FieldDescriptor{}, fmt.Errorf("%w: field %q declares neither max nor count",
			errs.ErrInvalidDescriptor, f.Name)
	}
}
