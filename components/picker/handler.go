package picker

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formwidgets/components/search"
	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/logging"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
)

// NewHandler builds the dialog handler for entity with default options plus
// any overrides.
func NewHandler(entity choices.EntityType, source search.Source, fns ...OptionFn) (http.Handler, error) {
	return HandlerWithOptions(entity, source, NewOptions(fns...))
}

// HandlerWithOptions builds the dialog handler from a pre-constructed Options
// value. Without a renderer the embedded vanilla templates are used. Method
// matching is left to the router.
func HandlerWithOptions(entity choices.EntityType, source search.Source, opts Options) (http.Handler, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	if entity.IsZero() {
		return nil, fmt.Errorf("picker: missing entity type")
	}
	if source == nil {
		return nil, fmt.Errorf("picker: missing source for %s", entity)
	}

	renderer := opts.Renderer
	if renderer == nil {
		vr, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("picker: %w", err)
		}
		renderer = vr
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithField("entity", entity.String())

	title := opts.Title
	if title == "" {
		title = "Select " + strings.ReplaceAll(entity.Model, "_", " ")
	}
	searchOpts := search.NewOptions(
		search.WithEmptySearchMode(search.EmptySearchTop),
		search.WithDefaultLimit(opts.Limit),
		search.WithMaxLimit(opts.Limit),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeStatus(w, search.StatusCode(err, http.StatusForbidden))
				return
			}
		}

		field := strings.TrimSpace(r.URL.Query().Get(opts.FieldParam))
		if field == "" {
			http.Error(w, "missing "+opts.FieldParam+" parameter", http.StatusBadRequest)
			return
		}

		scope := choices.Scope{}
		if opts.Scope != nil {
			resolved, err := opts.Scope(r)
			if err != nil {
				writeStatus(w, search.StatusCode(err, http.StatusForbidden))
				return
			}
			scope = resolved
		}

		query := strings.TrimSpace(r.URL.Query().Get(opts.SearchParam))
		items, err := search.Search(r.Context(), source, entity, scope, query, 0, searchOpts)
		if err != nil {
			logger.WithError(err).WithField("query", query).Warn("picker search failed")
			writeStatus(w, search.StatusCode(err, http.StatusInternalServerError))
			return
		}

		markup, err := renderer.RenderComponent(components.NamePickerDialog, components.View{
			"title":              title,
			"field":              field,
			"action":             r.URL.Path,
			"query":              query,
			"search_placeholder": opts.SearchPlaceholder,
			"empty_text":         opts.EmptyText,
			"items":              rows(items),
		})
		if err != nil {
			logger.WithError(err).Error("render picker dialog")
			writeStatus(w, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write([]byte(markup)); err != nil {
			logger.WithError(err).Debug("write picker dialog")
		}
	}), nil
}

func rows(items []choices.Item) []map[string]string {
	out := make([]map[string]string, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]string{"id": item.ID, "label": item.Label})
	}
	return out
}

func writeStatus(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}
