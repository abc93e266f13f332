package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
)

// RenderOptions describe per-request presentation choices that do not belong
// to the editor state.
type RenderOptions struct {
	// Title heads the page.
	Title string
	// Theme carries resolved tokens and asset URLs. Renderers turn tokens into
	// CSS custom properties; nil means built-in defaults.
	Theme *theme.RendererConfig
	// PreviewFormat selects JSON (default) or YAML for the preview pane.
	PreviewFormat projection.Format
	// Indent controls preview indentation; values below one mean
	// projection.DefaultIndent.
	Indent int
}

// Preview serialises the snapshot preview according to the options.
func (o RenderOptions) Preview(view View) (string, error) {
	out, err := projection.Marshal(view.Snapshot.Preview, o.PreviewFormat, o.Indent)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
