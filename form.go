package formwidgets

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/widgets"
)

//go:embed templates/form.tmpl
var pageTemplates embed.FS

const formTemplate = "templates/form.tmpl"

// RenderForm renders a page holding every configured field. values seeds the
// current value per field name; r, when non-nil, is the bound request used to
// re-include submitted values.
func (a *App) RenderForm(ctx context.Context, r *http.Request, values map[string]string, submitted bool) (string, error) {
	fields := make([]map[string]any, 0, len(a.fields))
	var media widgets.Media
	for _, field := range a.fields {
		markup, err := field.Widget.Render(ctx, widgets.RenderContext{
			Name:    field.Name,
			Value:   values[field.Name],
			Scope:   choices.Unrestricted(),
			Request: r,
		})
		if err != nil {
			return "", fmt.Errorf("formwidgets: render %s: %w", field.Name, err)
		}
		media = media.Merge(field.Widget.Media())
		fields = append(fields, map[string]any{
			"id":     widgets.FieldID(field.Name, nil),
			"label":  fieldLabel(field),
			"kind":   field.Kind,
			"markup": markup,
		})
	}

	view := map[string]any{
		"title":         "formwidgets",
		"action":        formPath(a.cfg.Server.BasePath),
		"jquery_url":    a.cfg.Server.JQueryURL,
		"typeahead_url": a.cfg.Server.TypeaheadURL,
		"media":         media.HTML(),
		"fields":        fields,
	}
	if submitted {
		rows := make([]map[string]string, 0, len(a.fields))
		for _, field := range a.fields {
			rows = append(rows, map[string]string{"name": field.Name, "value": values[field.Name]})
		}
		view["submitted"] = rows
	}
	return a.page.RenderTemplate(formTemplate, view)
}

func (a *App) formHandler() http.Handler {
	logger := a.logger.WithField("component", "form")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values := make(map[string]string, len(a.fields))
		var bound *http.Request
		submitted := false
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			for _, field := range a.fields {
				values[field.Name] = field.Widget.ValueFromForm(r, field.Name)
			}
			bound = r
			submitted = true
		} else {
			query := r.URL.Query()
			for _, field := range a.fields {
				values[field.Name] = query.Get(field.Name)
			}
		}

		page, err := a.RenderForm(r.Context(), bound, values, submitted)
		if err != nil {
			logger.WithError(err).Error("render form")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(page))
	})
}

func formPath(basePath string) string {
	basePath = strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		return "/"
	}
	return "/" + basePath + "/"
}

func fieldLabel(field Field) string {
	label := strings.ReplaceAll(field.Entity.Model, "_", " ")
	if label == "" {
		return field.Name
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
