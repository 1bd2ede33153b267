package widgets

import (
	"testing"

	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/testsupport"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := Field{
		Entity: testsupport.Company,
		Size:   10,
		Hints:  map[string]string{"widget": KindAutocomplete},
	}

	if got, ok := reg.Resolve(field); !ok || got != KindAutocomplete {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  Field
		expect string
		ok     bool
	}{
		{
			name:   "small set uses select picker",
			field:  Field{Entity: testsupport.Company, Size: 12},
			expect: KindSelectPicker,
			ok:     true,
		},
		{
			name:   "unknown size uses select picker",
			field:  Field{Entity: testsupport.Company},
			expect: KindSelectPicker,
			ok:     true,
		},
		{
			name:   "large set uses autocomplete",
			field:  Field{Entity: testsupport.Company, Size: LargeSetThreshold + 1},
			expect: KindAutocomplete,
			ok:     true,
		},
		{
			name:  "no entity resolves nothing",
			field: Field{Name: "orphan"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.field)
			if ok != tc.ok {
				t.Fatalf("resolve %s: want ok=%v, got %v", tc.name, tc.ok, ok)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", 999, func(field Field) bool {
		return field.Entity == choices.EntityType{App: "crm", Model: "company"}
	})

	got, ok := reg.Resolve(Field{Entity: testsupport.Company})
	if !ok || got != "custom" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
}

func TestBuild(t *testing.T) {
	reg := NewRegistry()
	store := testsupport.SeedStore(t)
	router := testsupport.Router(t)

	widget, err := reg.Build(Field{Name: "company", Entity: testsupport.Company, Size: 5}, store, router)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := widget.(*SelectWithPicker); !ok {
		t.Fatalf("expected *SelectWithPicker, got %T", widget)
	}

	widget, err = reg.Build(Field{Name: "company", Entity: testsupport.Company, Size: 5000}, store, router)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := widget.(*Autocomplete); !ok {
		t.Fatalf("expected *Autocomplete, got %T", widget)
	}

	if _, err := reg.Build(Field{Name: "x", Entity: testsupport.Company, Hints: map[string]string{"widget": "carousel"}}, store, router); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
