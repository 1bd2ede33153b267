package gotemplate

import (
	"encoding/json"

	"github.com/flosch/pongo2/v6"
)

func filters() map[string]any {
	return map[string]any{
		"jsstring": filterJSString,
	}
}

// filterJSString renders the input as a quoted JavaScript string literal that
// is safe inside an inline <script>: json.Marshal escapes <, > and & so the
// literal can never close the script element.
func filterJSString(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	value := ""
	if in != nil && !in.IsNil() {
		value = in.String()
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:jsstring", OrigError: err}
	}
	return pongo2.AsSafeValue(string(encoded)), nil
}
