package picker

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formwidgets/components/search"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
)

// ComponentRenderer renders the picker-dialog component. It is satisfied by
// *vanilla.Renderer.
type ComponentRenderer interface {
	RenderComponent(name string, view components.View) (string, error)
}

type Options struct {
	// RoutePath overrides the entity's default picker path.
	RoutePath         string
	FieldParam        string
	SearchParam       string
	Limit             int
	Title             string
	SearchPlaceholder string
	EmptyText         string
	Guard             search.GuardFunc
	Scope             search.ScopeFunc
	Renderer          ComponentRenderer
	Logger            *logrus.Entry

	// SearchOptions configure the search endpoint mounted by RegisterRoutes.
	SearchOptions []search.OptionFn
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		FieldParam:        "field",
		SearchParam:       "q",
		Limit:             50,
		SearchPlaceholder: "Search",
		EmptyText:         "No results",
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.FieldParam == "" {
		opts.FieldParam = "field"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.EmptyText == "" {
		opts.EmptyText = "No results"
	}
	if opts.SearchOptions != nil {
		opts.SearchOptions = append([]search.OptionFn{}, opts.SearchOptions...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Limit = limit
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

func WithSearchPlaceholder(text string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchPlaceholder = text
	}
}

func WithEmptyText(text string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptyText = text
	}
}

// WithGuard authorizes both the dialog and, through RegisterRoutes, the
// search endpoint.
func WithGuard(guard search.GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithScope resolves the caller's scope for both endpoints.
func WithScope(scope search.ScopeFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Scope = scope
	}
}

func WithRenderer(renderer ComponentRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithLogger(logger *logrus.Entry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithSearchOptions(fns ...search.OptionFn) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchOptions = append(o.SearchOptions, fns...)
	}
}
