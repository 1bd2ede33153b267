package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/routes"
)

// Built-in widget kinds exposed by the registry.
const (
	KindSelectPicker = "select-picker"
	KindAutocomplete = "autocomplete"
)

// LargeSetThreshold is the active set size above which the built-in rules
// prefer Autocomplete over an inline drop-down.
const LargeSetThreshold = 200

// Field describes an entity-reference form field the registry picks a widget
// kind for.
type Field struct {
	Name   string
	Entity choices.EntityType
	// Hints may pin the kind through the "widget" key.
	Hints map[string]string
	// Size is the expected active set size, 0 when unknown.
	Size int
}

// Matcher decides whether a widget kind should handle the supplied field.
type Matcher func(field Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget kinds for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a kind.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a field. An explicit "widget" hint is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Hints["widget"]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Build resolves the field's kind and constructs the matching widget.
func (r *Registry) Build(field Field, source choices.Source, router routes.Reverser, opts ...Option) (Widget, error) {
	kind, ok := r.Resolve(field)
	if !ok {
		return nil, fmt.Errorf("widgets: no widget kind for field %q", field.Name)
	}
	switch kind {
	case KindSelectPicker:
		return NewSelectWithPicker(field.Entity, source, router, opts...)
	case KindAutocomplete:
		return NewAutocomplete(field.Entity, source, router, opts...)
	default:
		return nil, fmt.Errorf("widgets: unknown widget kind %q for field %q", kind, field.Name)
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(KindAutocomplete, 80, func(field Field) bool {
		return field.Size > LargeSetThreshold
	})

	r.Register(KindSelectPicker, 10, func(field Field) bool {
		return !field.Entity.IsZero()
	})
}
