package text_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/saurabhkr66/jsonbuilder/pkg/editor"
	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/render"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/text"
	"github.com/saurabhkr66/jsonbuilder/pkg/testsupport"
)

func TestRenderer_Golden(t *testing.T) {
	view := render.View{Snapshot: testsupport.SampleEditor(t).Snapshot()}

	out, err := text.New().Render(testsupport.Context(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "sample.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, out) {
		return
	}
	want := string(testsupport.MustReadGolden(t, goldenPath))
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_EmptyEditorAndErrors(t *testing.T) {
	e := editor.New(editor.WithEmptyStart())
	view := render.View{
		Snapshot: e.Snapshot(),
		Errors:   []string{"editor: delete@\"4\": path not found"},
	}

	out, err := text.New().Render(testsupport.Context(), view, render.RenderOptions{
		Title:         "Scratch",
		PreviewFormat: projection.FormatYAML,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := string(out)
	for _, want := range []string{
		"Scratch\n=======\n",
		"! editor: delete",
		"(no fields)\n",
		"YAML preview (revision 0)\n{}\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestOutline_CustomIndent(t *testing.T) {
	rows := testsupport.SampleEditor(t).Rows()
	outline := text.New(text.WithIndent("....")).Outline(rows)

	if !strings.Contains(outline, "....[0.1] age <number>\n") {
		t.Fatalf("unexpected outline:\n%s", outline)
	}
	if text.KeyLabel("") != text.EmptyKeyLabel || text.KeyLabel("id") != "id" {
		t.Fatalf("unexpected key labels")
	}
}
