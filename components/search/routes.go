package search

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/routes"
)

// MountPath returns the full mount path of entity's search endpoint under
// basePath.
func MountPath(basePath string, entity choices.EntityType, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, entity, opts.RoutePath)
}

// RegisterRoutes mounts the search handler for entity on router under its
// search route name.
func RegisterRoutes(router *routes.Router, basePath string, entity choices.EntityType, source Source, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(router, basePath, entity, source, opts)
}

// RegisterRoutesWithOptions registers the handler using a pre-built Options
// value.
func RegisterRoutesWithOptions(router *routes.Router, basePath string, entity choices.EntityType, source Source, opts Options) (string, error) {
	if router == nil {
		return "", fmt.Errorf("search: missing router")
	}
	route, err := NewRoute(basePath, entity, source, opts)
	if err != nil {
		return "", err
	}
	if err := router.Handle(route); err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	return route.Path, nil
}

// NewRoute builds entity's named search route without registering it.
func NewRoute(basePath string, entity choices.EntityType, source Source, opts Options) (routes.Route, error) {
	if entity.IsZero() {
		return routes.Route{}, fmt.Errorf("search: missing entity type")
	}
	if source == nil {
		return routes.Route{}, fmt.Errorf("search: missing source for %s", entity)
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	return routes.Route{
		Name:    routes.SearchRouteName(entity),
		Path:    mountPath(basePath, entity, opts.RoutePath),
		Methods: routes.ReadMethods(),
		Handler: HandlerWithOptions(entity, source, opts),
	}, nil
}

func mountPath(basePath string, entity choices.EntityType, routePath string) string {
	if strings.TrimSpace(routePath) == "" {
		return routes.SearchPath(basePath, entity)
	}
	return routes.MountPath(basePath, routePath)
}
