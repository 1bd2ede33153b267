package gotemplate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	gotemplate "github.com/goliatone/go-template"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/hello.tmpl":  {Data: []byte(`Hello {{ name }}!`)},
		"templates/script.tmpl": {Data: []byte(`var id = {{ id|jsstring }};`)},
		"templates/rows.tmpl":   {Data: []byte(`{% for row in rows %}[{{ row.id }}:{{ row.label }}{% if row.selected %}*{% endif %}]{% endfor %}`)},
	}
}

func newEngine(t *testing.T, opts ...Option) *gotemplate.Engine {
	t.Helper()

	engine, err := New(append(opts, WithFS(testFS()))...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateAppendsExtension(t *testing.T) {
	engine := newEngine(t)

	var written strings.Builder
	got, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "Ada"}, &written)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
	if written.String() != got {
		t.Fatalf("writer mismatch: %q", written.String())
	}
}

func TestEngine_AutoescapesValues(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("templates/hello.tmpl", map[string]any{"name": `<b>"x"</b>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped output, got %q", got)
	}
}

func TestEngine_JSStringFilter(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("templates/script", map[string]any{"id": `id_x"</script>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `var id = "id_x\"\u003c/script\u003e";`
	if got != want {
		t.Fatalf("unexpected output\nwant: %s\n got: %s", want, got)
	}
}

func TestEngine_RendersNestedViewData(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("templates/rows", map[string]any{
		"rows": []map[string]any{
			{"id": "1", "label": "Acme", "selected": false},
			{"id": "2", "label": "Globex", "selected": true},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[1:Acme][2:Globex*]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_FirstBundleWins(t *testing.T) {
	override := fstest.MapFS{
		"templates/hello.tmpl": {Data: []byte(`Hi {{ name }}`)},
	}
	engine := newEngine(t, WithFS(override))

	got, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hi Ada" {
		t.Fatalf("expected override template, got %q", got)
	}

	got, err = engine.RenderTemplate("templates/script", map[string]any{"id": "x"})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if got != `var id = "x";` {
		t.Fatalf("unexpected fallback output %q", got)
	}
}

func TestEngine_BaseDirOverridesBundles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates", "hello.tmpl")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(`Disk {{ name }}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	engine := newEngine(t, WithBaseDir(dir))

	got, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Disk Ada" {
		t.Fatalf("expected disk template, got %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	if _, err := engine.RenderTemplate("templates/missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
