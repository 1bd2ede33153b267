package widgets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formwidgets/pkg/routes"
)

// SelectWithPicker renders a <select> over the entity's active set next to a
// trigger link that opens the entity's picker dialog.
type SelectWithPicker struct {
	entity choices.EntityType
	source choices.ActiveSetSource
	router routes.Reverser
	cfg    *config
}

var _ Widget = (*SelectWithPicker)(nil)

// NewSelectWithPicker builds the widget for entity. source supplies the
// options and router resolves the picker route.
func NewSelectWithPicker(entity choices.EntityType, source choices.ActiveSetSource, router routes.Reverser, opts ...Option) (*SelectWithPicker, error) {
	if entity.IsZero() {
		return nil, fmt.Errorf("widgets: select picker: entity type is required")
	}
	if source == nil {
		return nil, fmt.Errorf("widgets: select picker %s: active set source is required", entity)
	}
	if router == nil {
		return nil, fmt.Errorf("widgets: select picker %s: router is required", entity)
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &SelectWithPicker{entity: entity, source: source, router: router, cfg: cfg}, nil
}

// Entity returns the entity type the widget selects from.
func (w *SelectWithPicker) Entity() choices.EntityType {
	return w.entity
}

// Render returns the select and picker trigger markup. The current value and
// any value submitted under rc.Name are offered even when they fall outside
// the active set.
func (w *SelectWithPicker) Render(ctx context.Context, rc RenderContext) (string, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return "", fmt.Errorf("widgets: select picker %s: field name is required", w.entity)
	}
	value := choices.CanonicalID(w.source, w.entity, strings.TrimSpace(rc.Value))
	id := FieldID(name, rc.Attrs)

	submitted := choices.CanonicalID(w.source, w.entity, submittedValue(rc.Request, name))
	additional := choices.CompactIDs(value, submitted)
	items, err := w.source.ActiveSet(ctx, w.entity, rc.Scope, additional)
	if err != nil {
		return "", fmt.Errorf("widgets: select picker %s: active set: %w", w.entity, err)
	}

	pickerURL, err := w.pickerURL(id)
	if err != nil {
		return "", err
	}

	selectMarkup, err := w.cfg.renderer.RenderComponent(components.NameSelect, components.View{
		"name":    name,
		"attrs":   attrList(id, rc.Attrs),
		"options": w.options(items, value),
	})
	if err != nil {
		return "", fmt.Errorf("widgets: select picker %s: %w", w.entity, err)
	}

	markup, err := w.cfg.renderer.RenderComponent(components.NameSelectPicker, components.View{
		"select":       selectMarkup,
		"picker_url":   pickerURL,
		"picker_title": w.cfg.pickerTitle,
		"id":           id,
		"icon":         w.cfg.icon,
	})
	if err != nil {
		return "", fmt.Errorf("widgets: select picker %s: %w", w.entity, err)
	}
	return markup, nil
}

// ValueFromForm returns the identifier submitted under name.
func (w *SelectWithPicker) ValueFromForm(r *http.Request, name string) string {
	return submittedValue(r, name)
}

// Media returns the assets the widget depends on.
func (w *SelectWithPicker) Media() Media {
	return w.cfg.media(components.NameSelect, components.NameSelectPicker)
}

func (w *SelectWithPicker) options(items []choices.Item, value string) []map[string]any {
	options := make([]map[string]any, 0, len(items)+1)
	options = append(options, map[string]any{
		"value":    "",
		"label":    w.cfg.blankLabel,
		"selected": value == "",
	})
	for _, item := range choices.DedupeItems(items) {
		options = append(options, map[string]any{
			"value":    item.ID,
			"label":    item.Label,
			"selected": value != "" && item.ID == value,
		})
	}
	return options
}

func (w *SelectWithPicker) pickerURL(fieldID string) (string, error) {
	base, err := w.router.Reverse(routes.PickerRouteName(w.entity))
	if err != nil {
		return "", fmt.Errorf("widgets: select picker %s: picker route: %w", w.entity, err)
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "field=" + url.QueryEscape(fieldID), nil
}
