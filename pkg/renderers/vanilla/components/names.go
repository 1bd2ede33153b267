package components

// Canonical component names used by the widgets and the default registry.
const (
	NameSelect       = "select"
	NameSelectPicker = "select-picker"
	NameTypeahead    = "typeahead"
	NamePickerDialog = "picker-dialog"
)

// Partial keys a theme can override with its own template path.
const (
	PartialSelect       = "widgets.select"
	PartialSelectPicker = "widgets.select-picker"
	PartialTypeahead    = "widgets.typeahead"
	PartialPickerDialog = "widgets.picker-dialog"
)
