// Package search provides the net/http endpoint that feeds the Autocomplete
// typeahead. It answers GET and HEAD requests with the entity records whose
// label matches the query:
//
//	{"objects": [{"__pk__": "42", "__str__": "Acme Corp", "suggestion": "Acme Corp{42}"}]}
//
// Results are restricted to the caller's scope, resolved per request through
// an optional ScopeFunc.
package search
