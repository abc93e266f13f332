// Package editor holds one editing session: a field tree plus the projection
// recomputed after every applied action. HTTP handlers and the terminal
// session both drive an Editor through Apply so that actions land in the
// order they were dispatched.
package editor

import (
	"fmt"
	"sync"

	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
)

// Option configures an Editor.
type Option func(*config)

type config struct {
	ids        model.IDGenerator
	emptyStart bool
}

// WithIDGenerator injects the identifier source. Editors created by one
// process usually share a single model.Counter.
func WithIDGenerator(ids model.IDGenerator) Option {
	return func(cfg *config) {
		if ids != nil {
			cfg.ids = ids
		}
	}
}

// WithEmptyStart skips the initial blank field.
func WithEmptyStart() Option {
	return func(cfg *config) {
		cfg.emptyStart = true
	}
}

// Editor is safe for concurrent use; actions are serialised.
type Editor struct {
	mu       sync.RWMutex
	tree     *model.Tree
	preview  *projection.Document
	revision uint64
}

// New creates an editor holding a single blank root field unless
// WithEmptyStart is given.
func New(options ...Option) *Editor {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	e := &Editor{tree: model.NewTree(cfg.ids)}
	if !cfg.emptyStart {
		// Adding to the root forest cannot fail.
		_, _ = e.tree.Add(nil)
	}
	e.preview = projection.Project(e.tree.Forest())
	return e
}

// Apply dispatches a single action and refreshes the preview. A failed
// action leaves the tree and preview untouched.
func (e *Editor) Apply(action Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.apply(action); err != nil {
		return fmt.Errorf("editor: %s: %w", action, err)
	}
	e.revision++
	e.preview = projection.Project(e.tree.Forest())
	return nil
}

func (e *Editor) apply(action Action) error {
	switch action.Op {
	case OpAdd:
		_, err := e.tree.Add(action.Path)
		return err
	case OpAddChild:
		if len(action.Path) == 0 {
			return fmt.Errorf("%w: add-child needs a field path", model.ErrPathNotFound)
		}
		_, err := e.tree.Add(action.Path)
		return err
	case OpSetKey:
		return e.tree.SetKey(action.Path, action.Key)
	case OpSetType:
		return e.tree.SetType(action.Path, action.Type)
	case OpUpdate:
		if !action.Type.Valid() {
			return fmt.Errorf("%w: %q", model.ErrUnknownType, action.Type)
		}
		if err := e.tree.SetKey(action.Path, action.Key); err != nil {
			return err
		}
		return e.tree.SetType(action.Path, action.Type)
	case OpMakeNested:
		return e.tree.MakeNested(action.Path)
	case OpDelete:
		parent, index, ok := action.Path.Split()
		if !ok {
			return fmt.Errorf("%w: delete needs a field path", model.ErrPathNotFound)
		}
		return e.tree.Delete(parent, index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, action.Op)
	}
}

// Replace swaps the field at path for f, subtree included.
func (e *Editor) Replace(path model.Path, f model.Field) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	parent, index, ok := path.Split()
	if !ok {
		return fmt.Errorf("editor: replace: %w: root path", model.ErrPathNotFound)
	}
	if err := e.tree.Update(parent, index, f); err != nil {
		return fmt.Errorf("editor: replace %q: %w", path.String(), err)
	}
	e.revision++
	e.preview = projection.Project(e.tree.Forest())
	return nil
}

// Fields returns a snapshot of the forest.
func (e *Editor) Fields() []model.Field {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Forest()
}

// Rows flattens the current forest for rendering.
func (e *Editor) Rows() []Row {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Flatten(e.tree.Forest())
}

// Field returns a snapshot of the field at path.
func (e *Editor) Field(path model.Path) (model.Field, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Field(path)
}

// Preview returns the projection computed after the latest action. Callers
// must not mutate it.
func (e *Editor) Preview() *projection.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.preview
}

// Revision counts successfully applied actions.
func (e *Editor) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Snapshot captures fields, preview and revision under one lock.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fields := e.tree.Forest()
	return Snapshot{
		Fields:   fields,
		Rows:     Flatten(fields),
		Preview:  e.preview,
		Revision: e.revision,
	}
}

// Snapshot is a consistent view of an editor.
type Snapshot struct {
	Fields   []model.Field        `json:"fields"`
	Rows     []Row                `json:"-"`
	Preview  *projection.Document `json:"preview"`
	Revision uint64               `json:"revision"`
}
