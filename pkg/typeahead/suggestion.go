// Package typeahead holds the suggestion encoding shared by the autocomplete
// widget's browser script, the search endpoint and server-side form binding.
//
// A suggestion carries both parts in one string, "label{id}", so the
// suggestion list can recover the identifier from the selected entry.
package typeahead

import (
	"regexp"
	"strings"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a query
// is sent to the search endpoint.
const DefaultDebounce = 250 * time.Millisecond

// SelectionPattern and IDSuffixPattern are written in the common subset of
// RE2 and JavaScript regular expressions. The typeahead script embeds them as
// /SelectionPattern/ in its updater and /IDSuffixPattern/ in its highlighter.
const (
	SelectionPattern = `^([\s\S]*)\{(\d+)\}$`
	IDSuffixPattern  = `\{\d+\}$`
)

var (
	selectionPattern = regexp.MustCompile(SelectionPattern)
	trailingIDSuffix = regexp.MustCompile(IDSuffixPattern)
)

// Suggestion is a decoded suggestion entry.
type Suggestion struct {
	Raw     string
	Label   string
	ID      string
	Matched bool
}

// EncodeSuggestion returns the "label{id}" form of a search result.
func EncodeSuggestion(label, id string) string {
	return label + "{" + id + "}"
}

// ParseSuggestion extracts the label and identifier from a selected entry. When
// the entry does not end in "{digits}" the raw string is used as the label and
// no identifier is reported.
func ParseSuggestion(raw string) Suggestion {
	matches := selectionPattern.FindStringSubmatch(raw)
	if matches == nil {
		return Suggestion{Raw: raw, Label: raw}
	}
	return Suggestion{Raw: raw, Label: matches[1], ID: matches[2], Matched: true}
}

// DisplayLabel strips a trailing "{digits}" so the list shows labels only.
func DisplayLabel(raw string) string {
	if raw == "" {
		return ""
	}
	return trailingIDSuffix.ReplaceAllString(raw, "")
}

// Reconcile applies the blur rule to a submitted pair of fields: a visible
// field left empty forces the identifier empty, whatever the hidden field
// still carries.
func Reconcile(hidden, visible string) string {
	if strings.TrimSpace(visible) == "" {
		return ""
	}
	return strings.TrimSpace(hidden)
}
