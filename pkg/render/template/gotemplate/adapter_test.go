package gotemplate_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/saurabhkr66/jsonbuilder/pkg/render/template/gotemplate"
	"github.com/saurabhkr66/jsonbuilder/pkg/testsupport"
)

func testFiles() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":  {Data: []byte("Hello {{ name }}!")},
		"rows.tmpl":   {Data: []byte(`{% for row in rows %}<li id="{{ row.path|jbtest_slug }}">{{ row.key }}</li>{% endfor %}`)},
		"escape.tmpl": {Data: []byte("<pre>{{ preview }}</pre>")},
		"page.html":   {Data: []byte("html {{ name }}")},
	}
}

func slugFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue("row-" + strings.ReplaceAll(in.String(), ".", "-")), nil
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(testFiles(), options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}

	// Cached template, explicit extension.
	again, err := engine.RenderTemplate("hello.tmpl", map[string]any{"name": "Lin"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if again != "Hello Lin!" {
		t.Fatalf("unexpected result %q", again)
	}
}

func TestEngine_Filters(t *testing.T) {
	engine := newEngine(t, gotemplate.WithFilter("jbtest_slug", slugFilter))

	data := map[string]any{
		"rows": []any{
			map[string]any{"path": "0", "key": "id"},
			map[string]any{"path": "0.1", "key": "name"},
		},
	}
	got, err := engine.RenderTemplate("rows", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<li id="row-0">id</li><li id="row-0-1">name</li>`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	// A second engine registering the same name reuses the global filter.
	if _, err := gotemplate.New(testFiles(), gotemplate.WithFilter("jbtest_slug", slugFilter)); err != nil {
		t.Fatalf("second engine: %v", err)
	}
}

func TestEngine_AutoEscapes(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("escape", map[string]any{"preview": `{"<b>": ""}`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngine_Extension(t *testing.T) {
	engine := newEngine(t, gotemplate.WithExtension("html"))

	got, err := engine.RenderTemplate("page", map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "html x" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := gotemplate.New(nil); err == nil {
		t.Fatalf("expected error without templates")
	}
}
