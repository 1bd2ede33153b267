package template

import (
	"io"
)

// TemplateRenderer is the slice of the github.com/goliatone/go-template
// engine the widgets render through. *template.Engine from go-template
// satisfies it, so hosts can pass their own engine.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
