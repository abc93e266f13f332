package editor_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/model"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
)

func mustApply(t *testing.T, e *editor.Editor, actions ...editor.Action) {
	t.Helper()
	for _, action := range actions {
		if err := e.Apply(action); err != nil {
			t.Fatalf("apply %s: %v", action, err)
		}
	}
}

func TestEditor_StartsWithBlankField(t *testing.T) {
	e := editor.New()

	fields := e.Fields()
	if len(fields) != 1 {
		t.Fatalf("expected one starting field, got %d", len(fields))
	}
	if fields[0].Key != "" || fields[0].Type != model.FieldTypeString {
		t.Fatalf("unexpected starting field %+v", fields[0])
	}
	if got := projection.String(e.Preview()); got != "{}" {
		t.Fatalf("expected {} preview, got %s", got)
	}
	if e.Revision() != 0 {
		t.Fatalf("expected revision 0, got %d", e.Revision())
	}

	empty := editor.New(editor.WithEmptyStart())
	if len(empty.Fields()) != 0 {
		t.Fatalf("expected empty start")
	}
}

func TestEditor_PreviewFollowsActions(t *testing.T) {
	e := editor.New()

	mustApply(t, e,
		editor.Action{Op: editor.OpSetKey, Path: model.Path{0}, Key: "user"},
		editor.Action{Op: editor.OpMakeNested, Path: model.Path{0}},
		editor.Action{Op: editor.OpSetKey, Path: model.Path{0, 0}, Key: "name"},
		editor.Action{Op: editor.OpAddChild, Path: model.Path{0}},
		editor.Action{Op: editor.OpUpdate, Path: model.Path{0, 1}, Key: "age", Type: model.FieldTypeNumber},
		editor.Action{Op: editor.OpAdd},
		editor.Action{Op: editor.OpUpdate, Path: model.Path{1}, Key: "active", Type: model.FieldTypeBoolean},
	)

	want := `{"user":{"name":"","age":0},"active":false}`
	out, err := e.Preview().MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != want {
		t.Fatalf("want %s, got %s", want, out)
	}
	if e.Revision() != 7 {
		t.Fatalf("expected revision 7, got %d", e.Revision())
	}

	mustApply(t, e, editor.Action{Op: editor.OpDelete, Path: model.Path{0}})
	out, _ = e.Preview().MarshalJSON()
	if string(out) != `{"active":false}` {
		t.Fatalf("unexpected preview after delete: %s", out)
	}
}

func TestEditor_FailedActionLeavesState(t *testing.T) {
	e := editor.New()
	mustApply(t, e, editor.Action{Op: editor.OpSetKey, Path: model.Path{0}, Key: "a"})
	before := e.Snapshot()

	cases := []struct {
		action editor.Action
		target error
	}{
		{editor.Action{Op: "rename"}, editor.ErrUnknownOp},
		{editor.Action{Op: editor.OpDelete}, model.ErrPathNotFound},
		{editor.Action{Op: editor.OpAddChild}, model.ErrPathNotFound},
		{editor.Action{Op: editor.OpAddChild, Path: model.Path{0}}, model.ErrNotNested},
		{editor.Action{Op: editor.OpUpdate, Path: model.Path{0}, Key: "b", Type: "date"}, model.ErrUnknownType},
		{editor.Action{Op: editor.OpSetType, Path: model.Path{9}, Type: model.FieldTypeNull}, model.ErrPathNotFound},
	}
	for _, tc := range cases {
		if err := e.Apply(tc.action); !errors.Is(err, tc.target) {
			t.Fatalf("%s: expected %v, got %v", tc.action, tc.target, err)
		}
	}

	after := e.Snapshot()
	if diff := cmp.Diff(before.Fields, after.Fields); diff != "" {
		t.Fatalf("fields changed (-before +after):\n%s", diff)
	}
	if after.Revision != before.Revision {
		t.Fatalf("revision moved from %d to %d", before.Revision, after.Revision)
	}
}

func TestEditor_Replace(t *testing.T) {
	e := editor.New()
	err := e.Replace(model.Path{0}, model.Field{
		Key:  "a",
		Type: model.FieldTypeNested,
		Children: []model.Field{
			{Key: "b", Type: model.FieldTypeString},
		},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	out, _ := e.Preview().MarshalJSON()
	if string(out) != `{"a":{"b":""}}` {
		t.Fatalf("unexpected preview %s", out)
	}
	if err := e.Replace(nil, model.Field{Type: model.FieldTypeString}); !errors.Is(err, model.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestEditor_SharedCounterAcrossEditors(t *testing.T) {
	ids := model.NewCounter()
	a := editor.New(editor.WithIDGenerator(ids))
	b := editor.New(editor.WithIDGenerator(ids))

	if a.Fields()[0].ID == b.Fields()[0].ID {
		t.Fatalf("expected process-unique ids")
	}
}

func TestEditor_ConcurrentApplySerialises(t *testing.T) {
	e := editor.New(editor.WithEmptyStart())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Apply(editor.Action{Op: editor.OpAdd})
		}()
	}
	wg.Wait()

	if got := len(e.Fields()); got != 50 {
		t.Fatalf("expected 50 fields, got %d", got)
	}
	if e.Revision() != 50 {
		t.Fatalf("expected revision 50, got %d", e.Revision())
	}
}

func TestFlatten(t *testing.T) {
	forest := []model.Field{
		{ID: 1, Key: "a", Type: model.FieldTypeNested, Children: []model.Field{
			{ID: 2, Key: "b", Type: model.FieldTypeString},
		}},
		{ID: 3, Key: "c", Type: model.FieldTypeArray, Children: []model.Field{
			{ID: 4, Key: "stale", Type: model.FieldTypeString},
		}},
	}

	want := []editor.Row{
		{Kind: editor.RowField, ID: 1, Path: "0", Depth: 0, Key: "a", Type: model.FieldTypeNested, Nested: true},
		{Kind: editor.RowField, ID: 2, Path: "0.0", Depth: 1, Key: "b", Type: model.FieldTypeString},
		{Kind: editor.RowAddChild, ID: 1, Path: "0", Depth: 1},
		{Kind: editor.RowField, ID: 3, Path: "1", Depth: 0, Key: "c", Type: model.FieldTypeArray},
	}
	if diff := cmp.Diff(want, editor.Flatten(forest)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOp(t *testing.T) {
	op, err := editor.ParseOp(" Make-Nested ")
	if err != nil || op != editor.OpMakeNested {
		t.Fatalf("unexpected parse result %q %v", op, err)
	}
	if _, err := editor.ParseOp("rename"); !errors.Is(err, editor.ErrUnknownOp) {
		t.Fatalf("expected ErrUnknownOp, got %v", err)
	}
}
