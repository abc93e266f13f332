package model

import "fmt"

type node struct {
	key      string
	typ      FieldType
	children []FieldID
}

// Tree is the arena holding the ordered forest of root fields.
type Tree struct {
	ids   IDGenerator
	nodes map[FieldID]*node
	roots []FieldID
	// detached holds IDs handed out by CreateField that are not placed yet.
	detached map[FieldID]struct{}
}

// NewTree constructs an empty tree. A nil generator falls back to a private
// Counter.
func NewTree(ids IDGenerator) *Tree {
	if ids == nil {
		ids = NewCounter()
	}
	return &Tree{
		ids:      ids,
		nodes:    make(map[FieldID]*node),
		detached: make(map[FieldID]struct{}),
	}
}

// CreateField returns a detached field with the next identifier and default
// key and type. The identifier is kept when the field, or a subtree holding
// it, is placed with Update; each one is honoured once.
func (t *Tree) CreateField() Field {
	f := t.newField()
	t.detached[f.ID] = struct{}{}
	return f
}

func (t *Tree) newField() Field {
	return Field{ID: t.ids.Next(), Type: FieldTypeString}
}

// Len reports the number of root fields.
func (t *Tree) Len() int {
	return len(t.roots)
}

// Size reports the number of fields at every depth.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Add appends a fresh default field to the forest at parent and returns the
// path of the new field.
func (t *Tree) Add(parent Path) (Path, error) {
	siblings, err := t.siblings(parent)
	if err != nil {
		return nil, err
	}
	field := t.newField()
	t.nodes[field.ID] = &node{typ: field.Type}
	*siblings = append(*siblings, field.ID)
	return parent.Child(len(*siblings) - 1), nil
}

// Update replaces the field at index within the forest at parent with f,
// subtree included. Identifiers of f are kept when they belonged to the
// replaced subtree or come from CreateField and are not placed yet; any other
// identifier is reissued from the generator so values built by hand can never
// collide with future IDs.
func (t *Tree) Update(parent Path, index int, f Field) error {
	siblings, err := t.siblings(parent)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*siblings) {
		return fmt.Errorf("%w: index %d under %q", ErrPathNotFound, index, parent.String())
	}
	if err := validate(f); err != nil {
		return err
	}
	reusable := make(map[FieldID]struct{})
	t.collect((*siblings)[index], reusable)
	t.release((*siblings)[index])
	(*siblings)[index] = t.insert(f, reusable)
	return nil
}

// Delete removes the field at index within the forest at parent together with
// its subtree. Remaining siblings keep their relative order.
func (t *Tree) Delete(parent Path, index int) error {
	siblings, err := t.siblings(parent)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*siblings) {
		return fmt.Errorf("%w: index %d under %q", ErrPathNotFound, index, parent.String())
	}
	t.release((*siblings)[index])
	*siblings = append((*siblings)[:index], (*siblings)[index+1:]...)
	return nil
}

// SetKey renames the field at path.
func (t *Tree) SetKey(path Path, key string) error {
	n, _, err := t.resolve(path)
	if err != nil {
		return err
	}
	n.key = key
	return nil
}

// SetType changes the type of the field at path. Children are left in place
// when the new type is not nested; the projector ignores them.
func (t *Tree) SetType(path Path, typ FieldType) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	n, _, err := t.resolve(path)
	if err != nil {
		return err
	}
	n.typ = typ
	return nil
}

// MakeNested turns the field at path into a nested field whose children are
// exactly one fresh default field, whatever it held before.
func (t *Tree) MakeNested(path Path) error {
	n, _, err := t.resolve(path)
	if err != nil {
		return err
	}
	for _, id := range n.children {
		t.release(id)
	}
	child := t.newField()
	t.nodes[child.ID] = &node{typ: child.Type}
	n.typ = FieldTypeNested
	n.children = []FieldID{child.ID}
	return nil
}

// Field returns a value snapshot of the field at path.
func (t *Tree) Field(path Path) (Field, error) {
	if len(path) == 0 {
		return Field{}, fmt.Errorf("%w: root path does not address a field", ErrPathNotFound)
	}
	_, id, err := t.resolve(path)
	if err != nil {
		return Field{}, err
	}
	return t.snapshot(id), nil
}

// Forest returns a value snapshot of every root field in order.
func (t *Tree) Forest() []Field {
	out := make([]Field, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.snapshot(id))
	}
	return out
}

func (t *Tree) snapshot(id FieldID) Field {
	n := t.nodes[id]
	f := Field{ID: id, Key: n.key, Type: n.typ}
	if len(n.children) > 0 {
		f.Children = make([]Field, 0, len(n.children))
		for _, child := range n.children {
			f.Children = append(f.Children, t.snapshot(child))
		}
	}
	return f
}

func (t *Tree) resolve(path Path) (*node, FieldID, error) {
	if len(path) == 0 {
		return nil, 0, fmt.Errorf("%w: root path does not address a field", ErrPathNotFound)
	}
	level := t.roots
	var (
		current *node
		id      FieldID
	)
	for _, idx := range path {
		if idx < 0 || idx >= len(level) {
			return nil, 0, fmt.Errorf("%w: %q", ErrPathNotFound, path.String())
		}
		id = level[idx]
		current = t.nodes[id]
		level = current.children
	}
	return current, id, nil
}

func (t *Tree) siblings(parent Path) (*[]FieldID, error) {
	if len(parent) == 0 {
		return &t.roots, nil
	}
	n, _, err := t.resolve(parent)
	if err != nil {
		return nil, err
	}
	if n.typ != FieldTypeNested {
		return nil, fmt.Errorf("%w: %q", ErrNotNested, parent.String())
	}
	return &n.children, nil
}

func validate(f Field) error {
	if !f.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
	for _, child := range f.Children {
		if err := validate(child); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) insert(f Field, reusable map[FieldID]struct{}) FieldID {
	id := f.ID
	if _, ok := reusable[id]; ok {
		delete(reusable, id)
	} else if _, ok := t.detached[id]; ok {
		delete(t.detached, id)
	} else {
		id = t.ids.Next()
	}
	n := &node{key: f.Key, typ: f.Type}
	t.nodes[id] = n
	for _, child := range f.Children {
		n.children = append(n.children, t.insert(child, reusable))
	}
	return id
}

func (t *Tree) collect(id FieldID, into map[FieldID]struct{}) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	into[id] = struct{}{}
	for _, child := range n.children {
		t.collect(child, into)
	}
}

func (t *Tree) release(id FieldID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, child := range n.children {
		t.release(child)
	}
	delete(t.nodes, id)
}
