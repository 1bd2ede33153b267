package testsupport

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/choices/memory"
	"github.com/goliatone/go-formwidgets/pkg/routes"
)

// Company is the entity type used by widget and endpoint fixtures.
var Company = choices.EntityType{App: "crm", Model: "company"}

// CompanyRecords seeds the fixture store. Record 3 is archived and record 4 is
// restricted to the "rnd" group.
func CompanyRecords() []choices.Record {
	return []choices.Record{
		{Item: choices.Item{ID: "1", Label: "Acme Corp"}, Active: true},
		{Item: choices.Item{ID: "2", Label: "Globex"}, Active: true},
		{Item: choices.Item{ID: "3", Label: "Initech"}, Active: false},
		{Item: choices.Item{ID: "4", Label: "Acme Labs"}, Active: true, Groups: []string{"rnd"}},
		{Item: choices.Item{ID: "42", Label: "Umbrella <Holdings>"}, Active: true},
	}
}

// SeedStore returns a memory store holding CompanyRecords.
func SeedStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.New()
	if err := store.Put(Company, CompanyRecords()...); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

// Router returns a router with the fixture entity's picker and search routes
// registered at their default paths.
func Router(t *testing.T) *routes.Router {
	t.Helper()

	router := routes.NewRouter()
	if err := router.Register(routes.PickerRouteName(Company), routes.PickerPath("", Company)); err != nil {
		t.Fatalf("register picker route: %v", err)
	}
	if err := router.Register(routes.SearchRouteName(Company), routes.SearchPath("", Company)); err != nil {
		t.Fatalf("register search route: %v", err)
	}
	return router
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Option is a parsed <option> element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ParseFragment parses markup as a body fragment.
func ParseFragment(t *testing.T, markup string) []*html.Node {
	t.Helper()

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return nodes
}

// FindAll returns every element named tag in markup, in document order.
func FindAll(t *testing.T, markup, tag string) []*html.Node {
	t.Helper()

	var out []*html.Node
	for _, node := range ParseFragment(t, markup) {
		walk(node, func(n *html.Node) {
			if n.Type == html.ElementNode && n.Data == tag {
				out = append(out, n)
			}
		})
	}
	return out
}

// FindByID returns the element with the given id or fails the test.
func FindByID(t *testing.T, markup, id string) *html.Node {
	t.Helper()

	var found *html.Node
	for _, node := range ParseFragment(t, markup) {
		walk(node, func(n *html.Node) {
			if found != nil || n.Type != html.ElementNode {
				return
			}
			if value, ok := Attr(n, "id"); ok && value == id {
				found = n
			}
		})
	}
	if found == nil {
		t.Fatalf("element #%s not found in:\n%s", id, markup)
	}
	return found
}

// Options returns the parsed <option> elements of markup.
func Options(t *testing.T, markup string) []Option {
	t.Helper()

	var out []Option
	for _, node := range FindAll(t, markup, "option") {
		value, _ := Attr(node, "value")
		_, selected := Attr(node, "selected")
		out = append(out, Option{Value: value, Label: Text(node), Selected: selected})
	}
	return out
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var builder strings.Builder
	walk(n, func(child *html.Node) {
		if child.Type == html.TextNode {
			builder.WriteString(child.Data)
		}
	})
	return builder.String()
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}
