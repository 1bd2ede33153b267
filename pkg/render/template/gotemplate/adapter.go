package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	gotemplate "github.com/goliatone/go-template"

	"github.com/goliatone/go-formwidgets/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates []fs.FS
	extension string
}

// WithBaseDir loads templates from a directory on disk. Templates found there
// take precedence over any fs.FS bundles.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS appends an fs.FS template bundle. Bundles are searched in the order
// they were supplied.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithExtension overrides the default template extension (".tmpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(ext); trimmed != "" {
			cfg.extension = trimmed
		}
	}
}

var _ template.TemplateRenderer = (*gotemplate.Engine)(nil)

// New builds a go-template engine over the configured sources with the widget
// filters installed.
func New(options ...Option) (*gotemplate.Engine, error) {
	cfg := &config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && len(cfg.templates) == 0 {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	engineOpts := []gotemplate.Option{
		gotemplate.WithExtension(cfg.extension),
		gotemplate.WithTemplateFunc(filters()),
	}
	if cfg.baseDir != "" {
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.baseDir))
	}
	if len(cfg.templates) > 0 {
		engineOpts = append(engineOpts, gotemplate.WithFS(layeredFS(cfg.templates)))
	}

	engine, err := gotemplate.NewRenderer(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return engine, nil
}

// layeredFS opens a name from the first bundle that has it.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	var firstErr error
	for _, files := range l {
		file, err := files.Open(name)
		if err == nil {
			return file, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return nil, firstErr
}
