package components

const (
	templatePrefix = "templates/components/"

	// StylesheetName, ReadyScriptName and PickerScriptName are asset names
	// relative to the vanilla AssetsFS; widgets prefix them with their asset
	// base URL.
	StylesheetName   = "formwidgets.css"
	ReadyScriptName  = "formwidgets-ready.js"
	PickerScriptName = "formwidgets-picker.js"

	// ReadyBootstrap declares the onReady queue inline widget scripts push
	// onto. It must run before any widget markup.
	ReadyBootstrap = "window.onReady = window.onReady || [];"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// widget components.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameSelect, Descriptor{
		Template: templatePrefix + "select.tmpl",
		Partial:  PartialSelect,
	})
	registry.MustRegister(NameSelectPicker, Descriptor{
		Template:    templatePrefix + "select_picker.tmpl",
		Partial:     PartialSelectPicker,
		Stylesheets: []string{StylesheetName},
		Scripts:     []Script{{Src: PickerScriptName, Defer: true}},
	})
	registry.MustRegister(NameTypeahead, Descriptor{
		Template: templatePrefix + "typeahead.tmpl",
		Partial:  PartialTypeahead,
		Scripts: []Script{
			{Inline: ReadyBootstrap},
			{Src: ReadyScriptName, Defer: true},
		},
	})
	registry.MustRegister(NamePickerDialog, Descriptor{
		Template:    "templates/picker_dialog.tmpl",
		Partial:     PartialPickerDialog,
		Stylesheets: []string{StylesheetName},
	})

	return registry
}
