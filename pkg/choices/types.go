package choices

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that no record exists for the requested identifier
	// (or that the caller's scope cannot see it).
	ErrNotFound = errors.New("choices: record not found")
	// ErrInvalidID reports an identifier that cannot address the entity set,
	// e.g. a non-numeric value for an integer keyed table.
	ErrInvalidID = errors.New("choices: invalid identifier")
)

// EntityType names a selectable entity using the app/model convention that
// drives route naming (app_model_picker, app_model_search).
type EntityType struct {
	App   string
	Model string
}

// ParseEntityType parses "app.model" into an EntityType.
func ParseEntityType(raw string) (EntityType, error) {
	app, model, ok := strings.Cut(strings.TrimSpace(raw), ".")
	entity := EntityType{App: strings.TrimSpace(app), Model: strings.TrimSpace(model)}
	if !ok || entity.App == "" || entity.Model == "" {
		return EntityType{}, fmt.Errorf("choices: entity %q must use app.model form", raw)
	}
	return entity, nil
}

// String returns the dotted "app.model" form.
func (e EntityType) String() string {
	return e.App + "." + e.Model
}

// Key returns the lower-cased underscore form used in route names.
func (e EntityType) Key() string {
	return strings.ToLower(strings.TrimSpace(e.App)) + "_" + strings.ToLower(strings.TrimSpace(e.Model))
}

// IsZero reports whether the entity type is unset.
func (e EntityType) IsZero() bool {
	return strings.TrimSpace(e.App) == "" && strings.TrimSpace(e.Model) == ""
}

// Item is a selectable record as seen by the widgets.
type Item struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Record is the stored form of an Item carrying the attributes stores filter
// on. Widgets never read Active or Groups directly.
type Record struct {
	Item   `yaml:",inline"`
	Active bool     `json:"active" yaml:"active"`
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Scope is the caller's access scope. It is supplied explicitly per render or
// per request and never stored by the widgets.
type Scope struct {
	Subject string
	Groups  []string
	All     bool
}

// Unrestricted returns a scope that can see every record.
func Unrestricted() Scope {
	return Scope{All: true}
}

// Allows reports whether the scope can see a record restricted to groups. A
// record without groups is visible to every scope.
func (s Scope) Allows(groups []string) bool {
	if s.All || len(groups) == 0 {
		return true
	}
	for _, want := range groups {
		for _, have := range s.Groups {
			if want == have {
				return true
			}
		}
	}
	return false
}

// ActiveSetSource returns the ordered active items of an entity type visible
// to scope. Identifiers in additionalIDs are included even when they fall
// outside the active subset so a current selection is never dropped.
type ActiveSetSource interface {
	ActiveSet(ctx context.Context, entity EntityType, scope Scope, additionalIDs []string) ([]Item, error)
}

// Lookup resolves a single identifier. Implementations return ErrNotFound or
// ErrInvalidID (possibly wrapped) for missing or malformed identifiers.
type Lookup interface {
	Get(ctx context.Context, entity EntityType, id string) (Item, error)
}

// Searcher returns items whose label matches query, in the order suggestions
// should be shown. An empty query returns the leading active items.
type Searcher interface {
	Search(ctx context.Context, entity EntityType, scope Scope, query string, limit int) ([]Item, error)
}

// Source bundles every collaborator capability; both bundled stores satisfy it.
type Source interface {
	ActiveSetSource
	Lookup
	Searcher
}

// Canonicalizer is implemented by stores whose identifiers have more than one
// textual form, such as integer keys where "042" and "42" name the same row.
// CanonicalID returns the form the store reports in Item.ID.
type Canonicalizer interface {
	CanonicalID(entity EntityType, id string) string
}

// CanonicalID returns id in source's canonical form, or id unchanged when
// source does not implement Canonicalizer.
func CanonicalID(source any, entity EntityType, id string) string {
	c, ok := source.(Canonicalizer)
	if !ok || id == "" {
		return id
	}
	return c.CanonicalID(entity, id)
}

// IsMissing reports whether err means the identifier cannot be resolved to a
// label: not found or wrongly typed.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}
