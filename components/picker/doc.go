// Package picker serves the browse dialog opened by the SelectWithPicker
// trigger link. A GET with ?field=<element id>&q=<query> returns modal body
// markup listing matching records; each row carries data-picker-field,
// data-picker-value and data-picker-label attributes for the page script
// that fills the originating select.
//
// RegisterRoutes mounts the dialog together with the entity's search
// endpoint and binds both route names for reverse routing.
package picker
