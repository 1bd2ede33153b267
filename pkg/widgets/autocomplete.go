package widgets

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formwidgets/pkg/routes"
	"github.com/goliatone/go-formwidgets/pkg/typeahead"
)

// TypeaheadSuffix is appended to the field name and id of the visible input.
const TypeaheadSuffix = "_typeahead"

// Autocomplete renders a hidden identifier input plus a visible text input
// wired to the entity's search endpoint.
type Autocomplete struct {
	entity choices.EntityType
	lookup choices.Lookup
	router routes.Reverser
	cfg    *config
}

var _ Widget = (*Autocomplete)(nil)

// NewAutocomplete builds the widget for entity. lookup resolves the label of
// the current value. router is only consulted when no search URL is pinned
// with WithSearchURL.
func NewAutocomplete(entity choices.EntityType, lookup choices.Lookup, router routes.Reverser, opts ...Option) (*Autocomplete, error) {
	if entity.IsZero() {
		return nil, fmt.Errorf("widgets: autocomplete: entity type is required")
	}
	if lookup == nil {
		return nil, fmt.Errorf("widgets: autocomplete %s: lookup is required", entity)
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.searchURL == "" && router == nil {
		return nil, fmt.Errorf("widgets: autocomplete %s: router or search URL is required", entity)
	}
	return &Autocomplete{entity: entity, lookup: lookup, router: router, cfg: cfg}, nil
}

// Entity returns the entity type the widget selects from.
func (w *Autocomplete) Entity() choices.EntityType {
	return w.entity
}

// Render returns the hidden input, the visible input and the typeahead
// script. Label lookup failures never fail the render.
func (w *Autocomplete) Render(ctx context.Context, rc RenderContext) (string, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return "", fmt.Errorf("widgets: autocomplete %s: field name is required", w.entity)
	}
	value := choices.CanonicalID(w.lookup, w.entity, strings.TrimSpace(rc.Value))
	id := FieldID(name, rc.Attrs)
	typeaheadID := id + TypeaheadSuffix

	searchURL, err := w.searchURL()
	if err != nil {
		return "", err
	}

	markup, err := w.cfg.renderer.RenderComponent(components.NameTypeahead, components.View{
		"name":               name,
		"value":              value,
		"attrs":              attrList(id, rc.Attrs),
		"typeahead_id":       typeaheadID,
		"typeahead_name":     name + TypeaheadSuffix,
		"label":              w.Label(ctx, value),
		"placeholder":        w.cfg.placeholder,
		"hidden_selector":    "#" + id,
		"typeahead_selector": "#" + typeaheadID,
		"search_url":         searchURL,
		"search_param":       w.cfg.searchParam,
		"debounce_ms":        strconv.FormatInt(w.cfg.debounce.Milliseconds(), 10),
	})
	if err != nil {
		return "", fmt.Errorf("widgets: autocomplete %s: %w", w.entity, err)
	}
	return markup, nil
}

// Label resolves the display label of value. Absent, unknown and malformed
// identifiers resolve to "". Other lookup errors are logged and also resolve
// to "".
func (w *Autocomplete) Label(ctx context.Context, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	item, err := w.lookup.Get(ctx, w.entity, value)
	if err != nil {
		entry := w.cfg.logger.WithFields(logrus.Fields{
			"entity": w.entity.String(),
			"id":     value,
		}).WithError(err)
		if choices.IsMissing(err) {
			entry.Debug("autocomplete label not resolved")
		} else {
			entry.Warn("autocomplete label lookup failed")
		}
		return ""
	}
	return item.Label
}

// ValueFromForm returns the submitted identifier. When the visible input was
// submitted empty the identifier is cleared, matching the client blur rule.
func (w *Autocomplete) ValueFromForm(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	hidden := submittedValue(r, name)
	if err := r.ParseForm(); err != nil {
		return hidden
	}
	if _, ok := r.Form[name+TypeaheadSuffix]; !ok {
		return hidden
	}
	return typeahead.Reconcile(hidden, r.Form.Get(name+TypeaheadSuffix))
}

// Media returns the assets the widget depends on.
func (w *Autocomplete) Media() Media {
	return w.cfg.media(components.NameTypeahead)
}

func (w *Autocomplete) searchURL() (string, error) {
	if w.cfg.searchURL != "" {
		return w.cfg.searchURL, nil
	}
	url, err := w.router.Reverse(routes.SearchRouteName(w.entity))
	if err != nil {
		return "", fmt.Errorf("widgets: autocomplete %s: search route: %w", w.entity, err)
	}
	return url, nil
}
