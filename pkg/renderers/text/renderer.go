// Package text renders the editor as plain text: an indented outline of the
// field rows followed by the preview. The terminal session prints it between
// prompts.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/render"
)

const defaultTitle = "JSON Schema Builder"

// EmptyKeyLabel stands in for fields whose key has not been typed yet.
const EmptyKeyLabel = "(empty key)"

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithIndent sets the string repeated once per depth level in the outline.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		if indent != "" {
			r.indent = indent
		}
	}
}

func New(options ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preview, err := options.Preview(view)
	if err != nil {
		return nil, fmt.Errorf("text renderer: preview: %w", err)
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = defaultTitle
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteString("\n\n")

	for _, message := range view.Errors {
		fmt.Fprintf(&b, "! %s\n", message)
	}
	if len(view.Errors) > 0 {
		b.WriteByte('\n')
	}

	if outline := r.Outline(view.Snapshot.Rows); outline != "" {
		b.WriteString(outline)
	} else {
		b.WriteString("(no fields)\n")
	}

	format := options.PreviewFormat
	if format == "" {
		format = projection.FormatJSON
	}
	fmt.Fprintf(&b, "\n%s preview (revision %d)\n", strings.ToUpper(string(format)), view.Snapshot.Revision)
	b.WriteString(preview)
	if !strings.HasSuffix(preview, "\n") {
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// Outline writes one line per row, indented by depth:
//
//	[0] user <nested>
//	  [0.0] name <string>
//	  + add nested field to 0
func (r *Renderer) Outline(rows []editor.Row) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Repeat(r.indent, row.Depth))
		switch row.Kind {
		case editor.RowAddChild:
			fmt.Fprintf(&b, "+ add nested field to %s\n", row.Path)
		default:
			fmt.Fprintf(&b, "[%s] %s <%s>\n", row.Path, KeyLabel(row.Key), row.Type)
		}
	}
	return b.String()
}

// KeyLabel returns key, or EmptyKeyLabel when key is blank.
func KeyLabel(key string) string {
	if key == "" {
		return EmptyKeyLabel
	}
	return key
}
