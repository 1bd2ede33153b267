package picker

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formwidgets/components/search"
	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/routes"
)

// MountPath returns the full mount path of entity's dialog under basePath.
func MountPath(basePath string, entity choices.EntityType, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, entity, opts.RoutePath)
}

// RegisterRoutes mounts entity's picker dialog and search endpoint on router
// under their route names. Both handlers are built before either name is
// bound, so a failure leaves router untouched. It returns the picker and
// search patterns.
func RegisterRoutes(router *routes.Router, basePath string, entity choices.EntityType, source search.Source, fns ...OptionFn) ([]string, error) {
	if router == nil {
		return nil, fmt.Errorf("picker: missing router")
	}
	opts := NewOptions(fns...)

	handler, err := HandlerWithOptions(entity, source, opts)
	if err != nil {
		return nil, err
	}

	searchFns := []search.OptionFn{
		search.WithGuard(opts.Guard),
		search.WithScope(opts.Scope),
		search.WithLogger(opts.Logger),
	}
	searchFns = append(searchFns, opts.SearchOptions...)
	searchRoute, err := search.NewRoute(basePath, entity, source, search.NewOptions(searchFns...))
	if err != nil {
		return nil, err
	}

	pickerRoute := routes.Route{
		Name:    routes.PickerRouteName(entity),
		Path:    mountPath(basePath, entity, opts.RoutePath),
		Methods: routes.ReadMethods(),
		Handler: handler,
	}
	if err := router.Handle(pickerRoute, searchRoute); err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return []string{pickerRoute.Path, searchRoute.Path}, nil
}

func mountPath(basePath string, entity choices.EntityType, routePath string) string {
	if strings.TrimSpace(routePath) == "" {
		return routes.PickerPath(basePath, entity)
	}
	return routes.MountPath(basePath, routePath)
}
