// Package widgets renders the two entity-reference form widgets:
// SelectWithPicker, a drop-down of the active set paired with a link that
// opens a browse dialog, and Autocomplete, a hidden identifier field driven
// by a remote typeahead text input.
//
// Widgets are configured once with functional options and are safe for
// concurrent use afterwards. Every fragment is rendered through the vanilla
// component renderer, so hosts can override templates per component or per
// theme.
package widgets
