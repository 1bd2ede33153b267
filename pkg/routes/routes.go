// Package routes provides the named-route registry the widgets use to derive
// picker and search URLs from an entity type. Routes are served and reversed
// through a gorilla/mux router.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-formwidgets/pkg/choices"
)

// ErrRouteNotFound is returned when reversing an unknown route name.
var ErrRouteNotFound = errors.New("routes: route not found")

const (
	pickerSuffix = "picker"
	searchSuffix = "search"
)

// Reverser maps route names to URL paths.
type Reverser interface {
	Reverse(name string) (string, error)
}

// ReadMethods are the methods the picker and search endpoints answer.
func ReadMethods() []string {
	return []string{http.MethodGet, http.MethodHead}
}

// PickerRouteName returns the route name of entity's browse dialog,
// e.g. "crm_company_picker".
func PickerRouteName(entity choices.EntityType) string {
	return entity.Key() + "_" + pickerSuffix
}

// SearchRouteName returns the route name of entity's search endpoint,
// e.g. "crm_company_search".
func SearchRouteName(entity choices.EntityType) string {
	return entity.Key() + "_" + searchSuffix
}

// PickerPath returns the default mount path of entity's browse dialog under
// basePath, e.g. "/admin/crm/company/picker/".
func PickerPath(basePath string, entity choices.EntityType) string {
	return MountPath(basePath, entityPath(entity)+"/"+pickerSuffix+"/")
}

// SearchPath returns the default mount path of entity's search endpoint.
func SearchPath(basePath string, entity choices.EntityType) string {
	return MountPath(basePath, entityPath(entity)+"/"+searchSuffix+"/")
}

func entityPath(entity choices.EntityType) string {
	return strings.ToLower(strings.TrimSpace(entity.App)) + "/" + strings.ToLower(strings.TrimSpace(entity.Model))
}

// MountPath joins basePath and routePath into a rooted path.
func MountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}

// Route is one named path. A nil Handler registers the name for reversal only.
type Route struct {
	Name    string
	Path    string
	Methods []string
	Handler http.Handler
}

// Router serves and reverses named routes.
type Router struct {
	mu  sync.RWMutex
	mux *mux.Router
}

var (
	_ Reverser     = (*Router)(nil)
	_ http.Handler = (*Router)(nil)
)

// NewRouter returns an empty router.
func NewRouter() *Router {
	m := mux.NewRouter()
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	return &Router{mux: m}
}

// Mux returns the underlying router, for unnamed routes such as static
// assets. Register routes before serving.
func (r *Router) Mux() *mux.Router {
	return r.mux
}

// ServeHTTP dispatches req to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handle registers routes as one unit: if any route is invalid or conflicts
// with a registered one, none of them is added. Re-registering a name with
// the same path is allowed and attaches the handler when the name had none.
func (r *Router) Handle(routes ...Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]Route, 0, len(routes))
	paths := make(map[string]string, len(routes))
	for _, route := range routes {
		route.Name = strings.TrimSpace(route.Name)
		route.Path = strings.TrimSpace(route.Path)
		if route.Name == "" {
			return errors.New("routes: route name is required")
		}
		if route.Path == "" {
			return fmt.Errorf("routes: path for %q is required", route.Name)
		}
		if path, ok := paths[route.Name]; ok && path != route.Path {
			return fmt.Errorf("routes: %q bound to both %q and %q", route.Name, path, route.Path)
		}
		paths[route.Name] = route.Path

		if existing := r.mux.Get(route.Name); existing != nil {
			path, _ := existing.GetPathTemplate()
			if path != route.Path {
				return fmt.Errorf("routes: %q already bound to %q", route.Name, path)
			}
			if route.Handler != nil && existing.GetHandler() != nil {
				return fmt.Errorf("routes: %q already has a handler", route.Name)
			}
		}
		pending = append(pending, route)
	}

	for _, route := range pending {
		target := r.mux.Get(route.Name)
		if target == nil {
			target = r.mux.NewRoute().Name(route.Name).Path(route.Path)
		}
		if route.Handler == nil {
			continue
		}
		target.Handler(route.Handler)
		if len(route.Methods) > 0 {
			target.Methods(route.Methods...)
		}
	}
	return nil
}

// Register binds name to path for reversal. Registering the same pair twice
// is a no-op; rebinding a name to a different path is an error.
func (r *Router) Register(name, path string) error {
	return r.Handle(Route{Name: name, Path: path})
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Router) MustRegister(name, path string) {
	if err := r.Register(name, path); err != nil {
		panic(err)
	}
}

// Reverse implements Reverser.
func (r *Router) Reverse(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route := r.mux.Get(strings.TrimSpace(name))
	if route == nil {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	u, err := route.URL()
	if err != nil {
		return "", fmt.Errorf("routes: build %q: %w", name, err)
	}
	return u.String(), nil
}

// Names returns the registered route names in sorted order.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	_ = r.mux.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if name := route.GetName(); name != "" {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return names
}
