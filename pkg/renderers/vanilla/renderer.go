package vanilla

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	rendertemplate "github.com/goliatone/go-formwidgets/pkg/render/template"
	gotemplate "github.com/goliatone/go-formwidgets/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	partials         map[string]string
}

// WithTemplatesFS supplies an additional template bundle searched before the
// embedded one, so hosts can override individual templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRegistry replaces the default component registry.
func WithRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithPartials overrides component templates by partial key, typically from a
// theme selection.
func WithPartials(partials map[string]string) Option {
	return func(cfg *config) {
		if len(partials) == 0 {
			return
		}
		if cfg.partials == nil {
			cfg.partials = make(map[string]string, len(partials))
		}
		for key, value := range partials {
			cfg.partials[key] = value
		}
	}
}

// Renderer renders widget components through the template engine and tracks
// which components were used so their assets can be emitted once.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string

	mu   sync.Mutex
	used map[string]struct{}
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{gotemplate.WithExtension(".tmpl")}
		if cfg.templateFS != nil {
			engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(TemplatesFS()))

		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		registry:  cfg.registry,
		partials:  cfg.partials,
		used:      make(map[string]struct{}),
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Templates returns the underlying template renderer.
func (r *Renderer) Templates() rendertemplate.TemplateRenderer {
	return r.templates
}

// RenderComponent renders the named component with view.
func (r *Renderer) RenderComponent(name string, view components.View) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: component %q not registered", name)
	}

	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, view, components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render component %q: %w", name, err)
	}

	r.mu.Lock()
	r.used[descriptor.Name] = struct{}{}
	r.mu.Unlock()

	return buf.String(), nil
}

// Assets returns the assets of the named components.
func (r *Renderer) Assets(names ...string) (stylesheets []string, scripts []components.Script) {
	if r == nil || r.registry == nil {
		return nil, nil
	}
	return r.registry.Assets(names)
}

// UsedAssets returns the assets of every component rendered so far, in
// component name order.
func (r *Renderer) UsedAssets() (stylesheets []string, scripts []components.Script) {
	r.mu.Lock()
	names := make([]string, 0, len(r.used))
	for name := range r.used {
		names = append(names, name)
	}
	r.mu.Unlock()

	slices.Sort(names)
	return r.Assets(names...)
}
