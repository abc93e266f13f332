package render

import (
	"context"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
)

// Renderer draws an editor snapshot as bytes (an HTML page, plain text...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

// View is everything a renderer needs to draw one page view.
type View struct {
	// Session identifies the page view; HTML forms post it back.
	Session  string
	Snapshot editor.Snapshot
	// Errors carries feedback from the last rejected action.
	Errors []string
}
