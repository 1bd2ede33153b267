package widgets

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
)

// RenderContext carries the per-render inputs of a widget.
type RenderContext struct {
	// Name is the form field name.
	Name string
	// Value is the current identifier, empty when unset.
	Value string
	// Attrs are extra HTML attributes. "id" overrides the default id_<name>.
	Attrs map[string]string
	// Scope restricts which records the caller may see.
	Scope choices.Scope
	// Request is the in-flight request, used to re-include a submitted value
	// when a bound form is re-rendered. May be nil.
	Request *http.Request
}

// Widget is implemented by SelectWithPicker and Autocomplete.
type Widget interface {
	Render(ctx context.Context, rc RenderContext) (string, error)
	ValueFromForm(r *http.Request, name string) string
	Media() Media
}

// ComponentRenderer renders named components and reports their assets. It is
// satisfied by *vanilla.Renderer.
type ComponentRenderer interface {
	RenderComponent(name string, view components.View) (string, error)
	Assets(names ...string) (stylesheets []string, scripts []components.Script)
}

// FieldID returns the element id used for a field: attrs["id"] when set,
// otherwise id_<name>.
func FieldID(name string, attrs map[string]string) string {
	if id := strings.TrimSpace(attrs["id"]); id != "" {
		return id
	}
	return "id_" + name
}

// attrList flattens attrs into the ordered name/value pairs the templates
// iterate. id comes first, then the rest sorted by name. "name" is owned by
// the widget and dropped, as are keys that cannot be attribute names.
func attrList(id string, attrs map[string]string) []map[string]string {
	out := []map[string]string{{"name": "id", "value": id}}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		switch strings.TrimSpace(key) {
		case "", "id", "name":
			continue
		}
		if strings.ContainsAny(key, " \t\n\"'<>=/") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		out = append(out, map[string]string{"name": key, "value": attrs[key]})
	}
	return out
}

func submittedValue(r *http.Request, name string) string {
	if r == nil || name == "" {
		return ""
	}
	return strings.TrimSpace(r.FormValue(name))
}
