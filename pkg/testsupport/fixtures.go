// Package testsupport holds helpers shared by package tests: golden files,
// a sample editor and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
)

// SampleEditor returns an editor holding a small, deterministic tree:
//
//	user (nested)
//	  name (string)
//	  age (number)
//	tags (array)
//	"" (boolean, ignored by the projection)
func SampleEditor(t *testing.T) *editor.Editor {
	t.Helper()

	e := editor.New(editor.WithIDGenerator(model.NewCounter()), editor.WithEmptyStart())
	actions := []editor.Action{
		{Op: editor.OpAdd},
		{Op: editor.OpSetKey, Path: model.Path{0}, Key: "user"},
		{Op: editor.OpMakeNested, Path: model.Path{0}},
		{Op: editor.OpSetKey, Path: model.Path{0, 0}, Key: "name"},
		{Op: editor.OpAddChild, Path: model.Path{0}},
		{Op: editor.OpUpdate, Path: model.Path{0, 1}, Key: "age", Type: model.FieldTypeNumber},
		{Op: editor.OpAdd},
		{Op: editor.OpUpdate, Path: model.Path{1}, Key: "tags", Type: model.FieldTypeArray},
		{Op: editor.OpAdd},
		{Op: editor.OpSetType, Path: model.Path{2}, Type: model.FieldTypeBoolean},
	}
	for _, action := range actions {
		if err := e.Apply(action); err != nil {
			t.Fatalf("sample editor: apply %s: %v", action, err)
		}
	}
	return e
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
