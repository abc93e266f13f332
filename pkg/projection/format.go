package projection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a preview serialisation.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent matches the two-space indentation of the browser preview.
const DefaultIndent = 2

// ParseFormat accepts "json", "yaml" or "yml" (case-insensitive). Empty input
// selects JSON.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("projection: unsupported format %q", raw)
	}
}

// ContentType reports the media type of the serialised preview.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Marshal serialises doc with the given indentation. Indent values below one
// fall back to DefaultIndent. JSON output carries no trailing newline, YAML
// output ends with one.
func Marshal(doc *Document, format Format, indent int) ([]byte, error) {
	if indent < 1 {
		indent = DefaultIndent
	}
	if doc == nil {
		doc = NewDocument()
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("projection: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("projection: close yaml encoder: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", strings.Repeat(" ", indent))
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("projection: encode json: %w", err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	default:
		return nil, fmt.Errorf("projection: unsupported format %q", format)
	}
}

// String renders doc as two-space indented JSON, ignoring errors that cannot
// occur for documents built by Project.
func String(doc *Document) string {
	out, err := Marshal(doc, FormatJSON, DefaultIndent)
	if err != nil {
		return "{}"
	}
	return string(out)
}
