// Package tui drives an editor from terminal prompts. Every menu choice is
// translated into the same editor.Action values the HTTP page posts, so both
// front ends share one set of tree semantics.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/text"
)

// Menu entries, in display order.
const (
	MenuAddField    = "Add field"
	MenuEditField   = "Edit field"
	MenuMakeNested  = "Make nested"
	MenuAddChild    = "Add nested field"
	MenuDelete      = "Delete field"
	MenuShowPreview = "Show preview"
	MenuDone        = "Done"
)

var menu = []string{
	MenuAddField,
	MenuEditField,
	MenuMakeNested,
	MenuAddChild,
	MenuDelete,
	MenuShowPreview,
	MenuDone,
}

// keepNested is offered in the type selector for nested fields so editing
// the key does not collapse the field.
const keepNested = "Nested (keep children)"

// Session is an interactive loop over a single editor.
type Session struct {
	editor  *editor.Editor
	driver  PromptDriver
	outline *text.Renderer
	out     io.Writer
	format  projection.Format
	indent  int
	theme   Theme
}

// NewSession wraps e. Without WithPromptDriver the session prompts through
// survey on the controlling terminal.
func NewSession(e *editor.Editor, options ...Option) (*Session, error) {
	if e == nil {
		return nil, errors.New("tui: editor is required")
	}
	s := &Session{
		editor:  e,
		outline: text.New(),
		format:  projection.FormatJSON,
		theme:   Theme{ErrorPrefix: "error: "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	return s, nil
}

// Editor exposes the wrapped editor.
func (s *Session) Editor() *editor.Editor {
	return s.editor
}

// Run shows the outline and menu until the user picks Done, then returns the
// final projection. Rejected actions are reported and the loop continues;
// ErrAborted and driver failures end the session.
func (s *Session) Run(ctx context.Context) (*projection.Document, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.info(ctx, s.outlineText()); err != nil {
			return nil, err
		}

		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:  "What next?",
			Options:  menu,
			PageSize: len(menu),
		})
		if err != nil {
			return nil, err
		}
		if choice < 0 || choice >= len(menu) {
			continue
		}

		if menu[choice] == MenuDone {
			return s.editor.Preview(), nil
		}
		if err := s.dispatch(ctx, menu[choice]); err != nil {
			if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if infoErr := s.info(ctx, s.theme.ErrorPrefix+err.Error()); infoErr != nil {
				return nil, infoErr
			}
		}
	}
}

func (s *Session) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case MenuAddField:
		path := model.Path{len(s.editor.Fields())}
		if err := s.editor.Apply(editor.Action{Op: editor.OpAdd}); err != nil {
			return err
		}
		return s.promptField(ctx, path)
	case MenuEditField:
		path, err := s.pickField(ctx, "Edit which field?", false)
		if err != nil {
			return err
		}
		return s.promptField(ctx, path)
	case MenuMakeNested:
		path, err := s.pickField(ctx, "Nest which field?", false)
		if err != nil {
			return err
		}
		return s.editor.Apply(editor.Action{Op: editor.OpMakeNested, Path: path})
	case MenuAddChild:
		parent, err := s.pickField(ctx, "Add a field under?", true)
		if err != nil {
			return err
		}
		current, err := s.editor.Field(parent)
		if err != nil {
			return err
		}
		if err := s.editor.Apply(editor.Action{Op: editor.OpAddChild, Path: parent}); err != nil {
			return err
		}
		return s.promptField(ctx, parent.Child(len(current.Children)))
	case MenuDelete:
		path, err := s.pickField(ctx, "Delete which field?", false)
		if err != nil {
			return err
		}
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Delete %s and everything under it?", path.String()),
		})
		if err != nil || !ok {
			return err
		}
		return s.editor.Apply(editor.Action{Op: editor.OpDelete, Path: path})
	case MenuShowPreview:
		preview, err := projection.Marshal(s.editor.Preview(), s.format, s.indent)
		if err != nil {
			return err
		}
		return s.info(ctx, strings.TrimRight(string(preview), "\n"))
	default:
		return fmt.Errorf("%w: %q", editor.ErrUnknownOp, choice)
	}
}

// promptField asks for the key and type of the field at path and applies both
// as one update.
func (s *Session) promptField(ctx context.Context, path model.Path) error {
	current, err := s.editor.Field(path)
	if err != nil {
		return err
	}

	key, err := s.driver.Input(ctx, InputConfig{
		Message: "Key name",
		Default: current.Key,
		Help:    "Fields with an empty key are left out of the preview.",
	})
	if err != nil {
		return err
	}

	options := make([]string, 0, len(model.SelectableTypes)+1)
	defaultIndex := 0
	for i, typ := range model.SelectableTypes {
		options = append(options, typ.Label())
		if typ == current.Type {
			defaultIndex = i
		}
	}
	if current.IsNested() {
		options = append(options, keepNested)
		defaultIndex = len(options) - 1
	}

	choice, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Type",
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}

	typ := model.FieldTypeNested
	if choice >= 0 && choice < len(model.SelectableTypes) {
		typ = model.SelectableTypes[choice]
	} else if !current.IsNested() {
		return fmt.Errorf("%w: selection %d", model.ErrUnknownType, choice)
	}

	return s.editor.Apply(editor.Action{
		Op:   editor.OpUpdate,
		Path: path,
		Key:  key,
		Type: typ,
	})
}

// pickField lists field rows, optionally only nested ones, and returns the
// chosen path.
func (s *Session) pickField(ctx context.Context, message string, nestedOnly bool) (model.Path, error) {
	var (
		labels []string
		paths  []string
	)
	for _, row := range s.editor.Rows() {
		if row.Kind != editor.RowField || (nestedOnly && !row.Nested) {
			continue
		}
		labels = append(labels, fmt.Sprintf("%s[%s] %s <%s>",
			strings.Repeat("  ", row.Depth), row.Path, text.KeyLabel(row.Key), row.Type))
		paths = append(paths, row.Path)
	}
	if len(labels) == 0 {
		return nil, ErrNoFields
	}

	choice, err := s.driver.Select(ctx, SelectConfig{
		Message: message,
		Options: labels,
	})
	if err != nil {
		return nil, err
	}
	if choice < 0 || choice >= len(paths) {
		return nil, fmt.Errorf("%w: selection %d", model.ErrPathNotFound, choice)
	}
	return model.ParsePath(paths[choice])
}

func (s *Session) outlineText() string {
	outline := s.outline.Outline(s.editor.Rows())
	if outline == "" {
		return "(no fields)"
	}
	return strings.TrimRight(outline, "\n")
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}
