package model

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType enumerates the shapes a field can project to.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeNull    FieldType = "null"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	FieldTypeNested  FieldType = "nested"
)

var (
	// ErrUnknownType is returned when a type name is not one of the FieldType
	// constants.
	ErrUnknownType = errors.New("model: unknown field type")
	// ErrPathNotFound signals an index or path outside the current tree.
	ErrPathNotFound = errors.New("model: path not found")
	// ErrNotNested is returned when children are added under a field whose
	// type is not nested.
	ErrNotNested = errors.New("model: field is not nested")
)

// SelectableTypes lists the types offered by the type selector. Nested is
// reached through the dedicated make-nested action instead.
var SelectableTypes = []FieldType{
	FieldTypeString,
	FieldTypeNumber,
	FieldTypeBoolean,
	FieldTypeNull,
	FieldTypeArray,
	FieldTypeObject,
}

// Valid reports whether t is a known FieldType.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeNull,
		FieldTypeArray, FieldTypeObject, FieldTypeNested:
		return true
	default:
		return false
	}
}

// Label returns the human facing name used by selectors.
func (t FieldType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFieldType normalises a user supplied type name.
func ParseFieldType(raw string) (FieldType, error) {
	t := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Field is one named, typed entry of the schema tree. Children is only
// meaningful when Type is FieldTypeNested; other types may carry stale
// children which consumers ignore.
type Field struct {
	ID       FieldID   `json:"id"`
	Key      string    `json:"key"`
	Type     FieldType `json:"type"`
	Children []Field   `json:"children,omitempty"`
}

// IsNested reports whether the field projects to a sub-object.
func (f Field) IsNested() bool {
	return f.Type == FieldTypeNested
}
