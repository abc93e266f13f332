package template

import (
	"io"
)

// TemplateRenderer executes a named page template with view data. Output is
// returned and, when writers are given, copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
