// Package formwidgets renders entity-reference form fields as either a
// select with a picker dialog link or a typeahead backed by a JSON search
// endpoint. The widgets themselves live in pkg/widgets; this package exposes
// the common entry points and App, which wires a configuration file into
// stores, routes and widgets.
package formwidgets

import (
	"io/fs"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwidgets/pkg/routes"
	"github.com/goliatone/go-formwidgets/pkg/widgets"
)

// Widget aliases widgets.Widget.
type Widget = widgets.Widget

// RenderContext aliases widgets.RenderContext.
type RenderContext = widgets.RenderContext

// Media aliases widgets.Media.
type Media = widgets.Media

// NewSelectWithPicker exposes the select-with-picker constructor from the
// top-level module.
func NewSelectWithPicker(entity choices.EntityType, source choices.ActiveSetSource, router routes.Reverser, opts ...widgets.Option) (*widgets.SelectWithPicker, error) {
	return widgets.NewSelectWithPicker(entity, source, router, opts...)
}

// NewAutocomplete exposes the typeahead constructor from the top-level
// module.
func NewAutocomplete(entity choices.EntityType, lookup choices.Lookup, router routes.Reverser, opts ...widgets.Option) (*widgets.Autocomplete, error) {
	return widgets.NewAutocomplete(entity, lookup, router, opts...)
}

// EmbeddedTemplates exposes the built-in widget templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the widget stylesheet and ready-queue script so Go
// applications can serve them under their asset base URL.
//
// Typical mount:
//
//	mux.Handle("/static/formwidgets/",
//	  http.StripPrefix("/static/formwidgets/",
//	    http.FileServerFS(formwidgets.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
