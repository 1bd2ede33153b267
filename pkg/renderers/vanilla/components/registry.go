package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-formwidgets/pkg/render/template"
)

// View is the template payload a widget assembles for one render.
type View map[string]any

// Renderer writes the markup for one widget component into buf.
type Renderer func(buf *bytes.Buffer, view View, data ComponentData) error

// ComponentData carries the template engine and theme overrides for one
// render.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ThemePartials maps partial keys (e.g. "widgets.typeahead") to template
	// paths overriding the built-in ones.
	ThemePartials map[string]string
}

// Script describes a JavaScript dependency emitted once per page.
type Script struct {
	Src    string
	Type   string
	Inline string
	Async  bool
	Defer  bool
	Module bool
	Attrs  map[string]string
}

// Descriptor declares a widget component. Template components set Template
// (and optionally Partial, the theme override key); Register derives their
// Renderer. Components with custom logic supply Renderer directly.
type Descriptor struct {
	Name        string
	Template    string
	Partial     string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry tracks component descriptors keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Register associates a descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	descriptor.Template = strings.TrimSpace(descriptor.Template)
	descriptor.Partial = strings.TrimSpace(descriptor.Partial)
	if descriptor.Renderer == nil {
		if descriptor.Template == "" {
			return fmt.Errorf("components: %q needs a template or a renderer", name)
		}
		descriptor.Renderer = templateComponentRenderer(descriptor.Partial, descriptor.Template)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a copy of the named descriptor.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Partials maps every theme override key to the template it replaces.
func (r *Registry) Partials() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for _, descriptor := range r.components {
		if descriptor.Partial != "" {
			out[descriptor.Partial] = descriptor.Template
		}
	}
	return out
}

// Assets resolves the de-duplicated stylesheets and scripts of the named
// components, in first-seen order. Scripts are keyed by src, inline ones by
// their text.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	if len(names) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range descriptor.Scripts {
			key := scriptKey(script)
			if _, exists := seenScripts[key]; exists {
				continue
			}
			seenScripts[key] = struct{}{}
			scripts = append(scripts, cloneScript(script))
		}
	}
	return stylesheets, scripts
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, view View, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if partialKey != "" {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolved = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any(view))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func cloneDescriptor(src Descriptor) Descriptor {
	clone := src
	clone.Stylesheets = slices.Clone(src.Stylesheets)
	clone.Scripts = make([]Script, len(src.Scripts))
	for idx, script := range src.Scripts {
		clone.Scripts[idx] = cloneScript(script)
	}
	return clone
}

func cloneScript(script Script) Script {
	if len(script.Attrs) == 0 {
		script.Attrs = nil
		return script
	}
	attrs := make(map[string]string, len(script.Attrs))
	for key, value := range script.Attrs {
		attrs[key] = value
	}
	script.Attrs = attrs
	return script
}

func scriptKey(script Script) string {
	if script.Src != "" {
		return "src:" + script.Src
	}
	return "inline:" + script.Inline
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
