package typeahead

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSuggestion(t *testing.T) {
	cases := []struct {
		raw  string
		want Suggestion
	}{
		{
			raw:  "Acme Corp{42}",
			want: Suggestion{Raw: "Acme Corp{42}", Label: "Acme Corp", ID: "42", Matched: true},
		},
		{
			raw:  "NoBraces",
			want: Suggestion{Raw: "NoBraces", Label: "NoBraces"},
		},
		{
			raw:  "Weird {1} name{7}",
			want: Suggestion{Raw: "Weird {1} name{7}", Label: "Weird {1} name", ID: "7", Matched: true},
		},
		{
			raw:  "Slug{abc}",
			want: Suggestion{Raw: "Slug{abc}", Label: "Slug{abc}"},
		},
		{
			raw:  "Line one\nLine two{9}",
			want: Suggestion{Raw: "Line one\nLine two{9}", Label: "Line one\nLine two", ID: "9", Matched: true},
		},
		{
			raw:  "{5}",
			want: Suggestion{Raw: "{5}", Label: "", ID: "5", Matched: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ParseSuggestion(tc.raw)); diff != "" {
				t.Fatalf("ParseSuggestion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeSuggestionRoundTrip(t *testing.T) {
	encoded := EncodeSuggestion("Acme Corp", "42")
	if encoded != "Acme Corp{42}" {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	parsed := ParseSuggestion(encoded)
	if parsed.Label != "Acme Corp" || parsed.ID != "42" {
		t.Fatalf("round trip lost data: %#v", parsed)
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := DisplayLabel("Acme Corp{42}"); got != "Acme Corp" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := DisplayLabel("NoBraces"); got != "NoBraces" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := DisplayLabel(""); got != "" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestReconcile(t *testing.T) {
	if got := Reconcile("42", ""); got != "" {
		t.Fatalf("empty visible field must clear identifier, got %q", got)
	}
	if got := Reconcile("42", "   "); got != "" {
		t.Fatalf("blank visible field must clear identifier, got %q", got)
	}
	if got := Reconcile("42", "Acme Corp"); got != "42" {
		t.Fatalf("expected identifier to survive, got %q", got)
	}
}
