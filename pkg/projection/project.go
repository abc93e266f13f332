// Package projection turns a field forest into the default-valued JSON
// document shown in the editor preview.
package projection

import "github.com/saurabhkr66/jsonbuilder/pkg/model"

// Project maps forest to an object with one entry per keyed field, in field
// order. Fields with an empty key are skipped; when two fields share a key the
// later one wins. The result is never nil.
func Project(forest []model.Field) *Document {
	doc := NewDocument()
	for _, field := range forest {
		if field.Key == "" {
			continue
		}
		doc.Set(field.Key, DefaultValue(field))
	}
	return doc
}

// DefaultValue returns the placeholder a single field projects to.
func DefaultValue(field model.Field) any {
	switch field.Type {
	case model.FieldTypeNested:
		return Project(field.Children)
	case model.FieldTypeNumber:
		return 0
	case model.FieldTypeBoolean:
		return false
	case model.FieldTypeNull:
		return nil
	case model.FieldTypeArray:
		return Array{}
	case model.FieldTypeObject:
		return NewDocument()
	default:
		return ""
	}
}
