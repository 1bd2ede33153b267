package search

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/logging"
	"github.com/goliatone/go-formwidgets/pkg/typeahead"
)

// Source is what the endpoint needs from an entity store: substring search
// plus the active set for the "top" empty search mode.
type Source interface {
	choices.Searcher
	choices.ActiveSetSource
}

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// StatusCode returns the status carried by err when it implements HTTPError,
// otherwise fallback.
func StatusCode(err error, fallback int) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return fallback
}

// Object is one search result as the typeahead script consumes it.
type Object struct {
	PK         string `json:"__pk__"`
	Str        string `json:"__str__"`
	Suggestion string `json:"suggestion"`
}

// Response is the JSON body of the endpoint.
type Response struct {
	Objects []Object `json:"objects"`
}

// Handler builds a net/http handler with default options plus any overrides.
// It is an alias of NewHandler.
func Handler(entity choices.EntityType, source Source, fns ...OptionFn) http.Handler {
	return NewHandler(entity, source, fns...)
}

func NewHandler(entity choices.EntityType, source Source, fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(entity, source, opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Defaults are re-applied to zero fields. Method matching is left to
// the router; RegisterRoutes restricts the route to GET and HEAD.
func HandlerWithOptions(entity choices.EntityType, source Source, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithField("entity", entity.String())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		scope := choices.Scope{}
		if opts.Scope != nil {
			resolved, err := opts.Scope(r)
			if err != nil {
				writeGuardError(w, err)
				return
			}
			scope = resolved
		}

		if source == nil {
			logger.Error("search source not configured")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		query := r.URL.Query().Get(opts.SearchParam)
		limit := parseInt(r.URL.Query().Get(opts.LimitParam))

		items, err := Search(r.Context(), source, entity, scope, query, limit, opts)
		if err != nil {
			logger.WithError(err).WithField("query", query).Warn("search failed")
			code := StatusCode(err, http.StatusInternalServerError)
			http.Error(w, http.StatusText(code), code)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		if err := enc.Encode(Response{Objects: Objects(items)}); err != nil {
			logger.WithError(err).Debug("write search response")
		}
	})
}

// Objects converts items to response objects. The result is never nil.
func Objects(items []choices.Item) []Object {
	out := make([]Object, 0, len(items))
	for _, item := range items {
		out = append(out, Object{
			PK:         item.ID,
			Str:        item.Label,
			Suggestion: typeahead.EncodeSuggestion(item.Label, item.ID),
		})
	}
	return out
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := StatusCode(err, http.StatusForbidden)
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
