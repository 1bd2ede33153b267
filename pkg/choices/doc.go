// Package choices defines the collaborator contracts the form widgets depend
// on: querying the active set of an entity type, looking a single record up by
// identifier, and searching records for typeahead suggestions.
//
// Implementations live in sub-packages (memory, sqlstore) or in the host
// application. Widgets only ever read through these interfaces.
package choices
