// Package jsonbuilder is the top-level entry point: aliases for the core
// types and shortcuts for callers that only want a projected document or an
// HTTP handler.
package jsonbuilder

import (
	"io/fs"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/vanilla"
	"github.com/saurabhkr66/jsonbuilder/pkg/server"
)

// Field aliases model.Field.
type Field = model.Field

// FieldType aliases model.FieldType.
type FieldType = model.FieldType

// Document aliases projection.Document.
type Document = projection.Document

// Format aliases projection.Format.
type Format = projection.Format

// Action aliases editor.Action for callers driving an Editor directly.
type Action = editor.Action

// Formats accepted by Generate.
const (
	FormatJSON = projection.FormatJSON
	FormatYAML = projection.FormatYAML
)

// NewEditor exposes the editor constructor from the top-level module.
func NewEditor(options ...editor.Option) *editor.Editor {
	return editor.New(options...)
}

// Project maps a forest onto its default-valued document.
func Project(forest []Field) *Document {
	return projection.Project(forest)
}

// Generate projects forest and serialises the result. It is the simplest
// entry point for callers that hold field values and just want the text.
func Generate(forest []Field, format Format, indent int) ([]byte, error) {
	return projection.Marshal(projection.Project(forest), format, indent)
}

// NewServer builds the HTTP page shell with the default renderers.
func NewServer(options ...server.Option) (*server.Server, error) {
	return server.New(options...)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet served under /assets/.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(jsonbuilder.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
