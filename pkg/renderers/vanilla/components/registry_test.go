package components

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, view View, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST ")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryRegisterValidates(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: func(*bytes.Buffer, View, ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("x", Descriptor{}); err == nil {
		t.Fatalf("expected error without template or renderer")
	}
}

func TestRegistryRegisterDerivesTemplateRenderer(t *testing.T) {
	reg := New()
	reg.MustRegister("badge", Descriptor{Template: " templates/badge.tmpl ", Partial: "widgets.badge"})

	template := &recordingTemplateRenderer{}
	desc, ok := reg.Descriptor("badge")
	if !ok || desc.Renderer == nil {
		t.Fatalf("expected derived renderer, got %#v", desc)
	}
	if err := desc.Renderer(&bytes.Buffer{}, View{}, ComponentData{Template: template}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(template.calls) != 1 || template.calls[0] != "templates/badge.tmpl" {
		t.Fatalf("unexpected template calls %v", template.calls)
	}
}

func TestDefaultRegistryPartials(t *testing.T) {
	want := map[string]string{
		PartialSelect:       "templates/components/select.tmpl",
		PartialSelectPicker: "templates/components/select_picker.tmpl",
		PartialTypeahead:    "templates/components/typeahead.tmpl",
		PartialPickerDialog: "templates/picker_dialog.tmpl",
	}
	got := NewDefaultRegistry().Partials()
	if len(got) != len(want) {
		t.Fatalf("unexpected partials %v", got)
	}
	for key, path := range want {
		if got[key] != path {
			t.Fatalf("partial %s = %q, want %q", key, got[key], path)
		}
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, view View, data ComponentData) error { return nil }

	reg.MustRegister("select-picker", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/picker.css"},
		Scripts: []Script{
			{Src: "/shared.js"},
		},
	})
	reg.MustRegister("typeahead", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css"},
		Scripts: []Script{
			{Src: "/shared.js"},
			{Inline: "window.onReady = window.onReady || [];"},
		},
	})

	styles, scripts := reg.Assets([]string{"select-picker", "typeahead", "missing"})
	if len(styles) != 2 || styles[0] != "/shared.css" || styles[1] != "/picker.css" {
		t.Fatalf("unexpected stylesheets: %v", styles)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %d: %v", len(scripts), scripts)
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	names := NewDefaultRegistry().Names()
	want := []string{NamePickerDialog, NameSelect, NameSelectPicker, NameTypeahead}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestTemplateComponentRendererUsesThemePartial(t *testing.T) {
	template := &recordingTemplateRenderer{}
	desc, ok := NewDefaultRegistry().Descriptor(NameTypeahead)
	if !ok {
		t.Fatalf("typeahead not registered")
	}

	var buf bytes.Buffer
	err := desc.Renderer(&buf, View{"name": "company"}, ComponentData{
		Template:      template,
		ThemePartials: map[string]string{PartialTypeahead: "themes/acme/typeahead.tmpl"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(template.calls) != 1 || template.calls[0] != "themes/acme/typeahead.tmpl" {
		t.Fatalf("theme partial not applied: %v", template.calls)
	}
	if buf.String() != "rendered" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTemplateComponentRendererRequiresTemplate(t *testing.T) {
	desc, _ := NewDefaultRegistry().Descriptor(NameSelect)
	if err := desc.Renderer(&bytes.Buffer{}, View{}, ComponentData{}); err == nil {
		t.Fatalf("expected error without template renderer")
	}
}

type recordingTemplateRenderer struct {
	calls []string
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return "rendered", nil
}
