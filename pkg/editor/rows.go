package editor

import "github.com/saurabhkr66/jsonbuilder/pkg/model"

// RowKind distinguishes editable field rows from the "add nested field"
// control that closes every nested block.
type RowKind string

const (
	RowField    RowKind = "field"
	RowAddChild RowKind = "add-child"
)

// Row is one line of the flattened editor view. Renderers iterate rows instead
// of recursing so templates stay linear.
type Row struct {
	Kind   RowKind         `json:"kind"`
	ID     model.FieldID   `json:"id"`
	Path   string          `json:"path"`
	Depth  int             `json:"depth"`
	Key    string          `json:"key"`
	Type   model.FieldType `json:"type"`
	Nested bool            `json:"nested"`
}

// Flatten walks forest depth first. Children are only listed under nested
// fields, each nested block followed by a RowAddChild row pointing at its
// parent.
func Flatten(forest []model.Field) []Row {
	var rows []Row
	flatten(&rows, forest, nil)
	return rows
}

func flatten(rows *[]Row, forest []model.Field, parent model.Path) {
	for i, f := range forest {
		path := parent.Child(i)
		*rows = append(*rows, Row{
			Kind:   RowField,
			ID:     f.ID,
			Path:   path.String(),
			Depth:  len(path) - 1,
			Key:    f.Key,
			Type:   f.Type,
			Nested: f.IsNested(),
		})
		if !f.IsNested() {
			continue
		}
		flatten(rows, f.Children, path)
		*rows = append(*rows, Row{
			Kind:  RowAddChild,
			ID:    f.ID,
			Path:  path.String(),
			Depth: len(path),
		})
	}
}
