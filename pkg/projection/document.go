package projection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Document is a JSON object that remembers key insertion order. Setting an
// existing key replaces its value in place, the way a JavaScript object or a
// Python dict would.
type Document struct {
	keys   []string
	values map[string]any
}

// Array is the placeholder value produced for array fields.
type Array []any

// NewDocument returns an empty object.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores value under key. New keys are appended; existing keys keep their
// position.
func (d *Document) Set(key string, value any) {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Len reports the number of entries.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Map converts the document into plain Go values (map[string]any, []any),
// dropping key order. Handy for comparisons.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, d.Len())
	if d == nil {
		return out
	}
	for _, key := range d.keys {
		out[key] = plain(d.values[key])
	}
	return out
}

func plain(value any) any {
	switch v := value.(type) {
	case *Document:
		return v.Map()
	case Array:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, plain(item))
		}
		return out
	default:
		return v
	}
}

// MarshalJSON writes the entries in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil || len(d.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := encodeJSON(key)
		if err != nil {
			return nil, fmt.Errorf("projection: encode key %q: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := encodeJSON(d.values[key])
		if err != nil {
			return nil, fmt.Errorf("projection: encode value of %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON keeps empty arrays as [] rather than null.
func (a Array) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return encodeJSON([]any(a))
}

// encodeJSON marshals v without HTML escaping so keys such as "a<b>&c" print
// verbatim, the way a browser's JSON.stringify does.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalYAML builds an ordered yaml.v3 mapping node.
func (d *Document) MarshalYAML() (any, error) {
	return d.node(), nil
}

func (d *Document) node() *yaml.Node {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d.Len() == 0 {
		mapping.Style = yaml.FlowStyle
		return mapping
	}
	for _, key := range d.keys {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			valueNode(d.values[key]),
		)
	}
	return mapping
}

func valueNode(value any) *yaml.Node {
	switch v := value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v, Style: yaml.DoubleQuotedStyle}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
	case *Document:
		return v.node()
	case Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v) == 0 {
			seq.Style = yaml.FlowStyle
		}
		for _, item := range v {
			seq.Content = append(seq.Content, valueNode(item))
		}
		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)}
	}
}
