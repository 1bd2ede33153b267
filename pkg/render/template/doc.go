// Package template defines the template interface used by the widgets. The
// gotemplate sub-package builds the go-template engine that implements it.
package template
