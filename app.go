package formwidgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formwidgets/components/picker"
	"github.com/goliatone/go-formwidgets/components/search"
	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/choices/memory"
	"github.com/goliatone/go-formwidgets/pkg/choices/sqlstore"
	"github.com/goliatone/go-formwidgets/pkg/config"
	"github.com/goliatone/go-formwidgets/pkg/logging"
	rendertemplate "github.com/goliatone/go-formwidgets/pkg/render/template"
	"github.com/goliatone/go-formwidgets/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwidgets/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwidgets/pkg/routes"
	"github.com/goliatone/go-formwidgets/pkg/widgets"

	theme "github.com/goliatone/go-theme"
)

// Field is a configured entity field bound to its widget.
type Field struct {
	Name   string
	Entity choices.EntityType
	Kind   string
	Widget widgets.Widget
}

// App holds everything a configuration file declares: entity stores, the
// picker and search endpoints, and one widget per entity.
type App struct {
	cfg    *config.Config
	logger *logrus.Logger
	router *routes.Router
	fields []Field
	page   rendertemplate.TemplateRenderer
	db     *sql.DB
	tables *sqlstore.Store
}

// NewApp builds an App from cfg. A nil cfg uses config.Default and a nil
// logger discards output.
func NewApp(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard().Logger
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
		router: routes.NewRouter(),
	}

	page, err := gotemplate.New(gotemplate.WithFS(pageTemplates))
	if err != nil {
		return nil, fmt.Errorf("formwidgets: page templates: %w", err)
	}
	app.page = page

	selection, err := app.selectTheme()
	if err != nil {
		return nil, err
	}

	if err := app.mountEntities(selection); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.mountStatic()
	return app, nil
}

// Handler returns the HTTP handler serving the form page, the widget
// endpoints and the widget assets.
func (a *App) Handler() http.Handler {
	return a.router
}

// Router returns the named-route registry the widgets reverse through.
func (a *App) Router() *routes.Router {
	return a.router
}

// Fields returns the configured fields in declaration order.
func (a *App) Fields() []Field {
	return append([]Field(nil), a.fields...)
}

// Field returns the field named name.
func (a *App) Field(name string) (Field, bool) {
	for _, field := range a.fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (a *App) fieldFolded(name string) (Field, bool) {
	for _, field := range a.fields {
		if strings.EqualFold(field.Name, name) {
			return field, true
		}
	}
	return Field{}, false
}

// Close releases the database handle, if one was opened.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	a.tables = nil
	return err
}

func (a *App) selectTheme() (*theme.Selection, error) {
	manifest := a.cfg.Theme.Manifest()
	if manifest == nil {
		return nil, nil
	}
	selection, err := widgets.ManifestSelector{Manifest: manifest}.Select(a.cfg.Theme.Name, a.cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("formwidgets: %w", err)
	}
	return selection, nil
}

func (a *App) mountEntities(selection *theme.Selection) error {
	dialogRenderer, err := vanilla.New(
		vanilla.WithTemplatesDir(a.cfg.Widgets.TemplatesDir),
		vanilla.WithPartials(widgets.ThemePartials(selection)),
	)
	if err != nil {
		return fmt.Errorf("formwidgets: picker renderer: %w", err)
	}

	store := memory.New()
	registry := widgets.NewRegistry()
	widgetOpts := a.widgetOptions(selection)

	for idx, entry := range a.cfg.Entities {
		entity, err := entry.EntityType()
		if err != nil {
			return fmt.Errorf("formwidgets: entities[%d]: %w", idx, err)
		}

		if other, ok := a.fieldFolded(entity.Model); ok {
			return fmt.Errorf("formwidgets: %s: field %q is already bound to %s", entity, entity.Model, other.Entity)
		}

		var source choices.Source = store
		if entry.Table != nil {
			sqlSource, err := a.sqlStore()
			if err != nil {
				return err
			}
			if err := sqlSource.Register(entity, entry.Table.SQLTable()); err != nil {
				return fmt.Errorf("formwidgets: %s: %w", entity, err)
			}
			source = sqlSource
		} else {
			if err := store.Put(entity, entry.Records...); err != nil {
				return fmt.Errorf("formwidgets: %s: %w", entity, err)
			}
		}

		active, err := source.ActiveSet(context.Background(), entity, choices.Unrestricted(), nil)
		if err != nil {
			return fmt.Errorf("formwidgets: %s: count active records: %w", entity, err)
		}

		patterns, err := picker.RegisterRoutes(a.router, a.cfg.Server.BasePath, entity, source,
			picker.WithRenderer(dialogRenderer),
			picker.WithScope(unrestrictedScope),
			picker.WithLogger(logging.Component(a.logger, "picker")),
			picker.WithSearchOptions(
				search.WithSearchParam(a.cfg.Widgets.SearchParam),
				search.WithLogger(logging.Component(a.logger, "search")),
			),
		)
		if err != nil {
			return fmt.Errorf("formwidgets: %s: %w", entity, err)
		}

		field := widgets.Field{
			Name:   entity.Model,
			Entity: entity,
			Hints:  map[string]string{"widget": entry.Widget},
			Size:   len(active),
		}
		kind, _ := registry.Resolve(field)
		widget, err := registry.Build(field, source, a.router, widgetOpts...)
		if err != nil {
			return fmt.Errorf("formwidgets: %s: %w", entity, err)
		}

		a.fields = append(a.fields, Field{Name: field.Name, Entity: entity, Kind: kind, Widget: widget})
		a.logger.WithFields(logrus.Fields{
			"entity": entity.String(),
			"widget": kind,
			"routes": strings.Join(patterns, ","),
		}).Debug("entity mounted")
	}
	return nil
}

func (a *App) widgetOptions(selection *theme.Selection) []widgets.Option {
	w := a.cfg.Widgets
	opts := []widgets.Option{
		widgets.WithLogger(logging.Component(a.logger, "widgets")),
		widgets.WithBlankLabel(w.BlankLabel),
		widgets.WithPickerTitle(w.PickerTitle),
		widgets.WithDebounce(w.Debounce),
		widgets.WithSearchParam(w.SearchParam),
		widgets.WithPlaceholder(w.Placeholder),
		widgets.WithTemplatesDir(w.TemplatesDir),
		widgets.WithAssetBaseURL(w.AssetBaseURL),
	}
	if w.PickerIcon != "" {
		opts = append(opts, widgets.WithIcon(w.PickerIcon))
	}
	if selection != nil {
		opts = append(opts, widgets.WithThemeSelection(selection))
	}
	return opts
}

func (a *App) sqlStore() (*sqlstore.Store, error) {
	if a.tables != nil {
		return a.tables, nil
	}
	if a.cfg.Database.DSN == "" {
		return nil, errors.New("formwidgets: database.dsn is required for table entities")
	}
	db, err := sql.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("formwidgets: open database: %w", err)
	}
	a.db = db

	store, err := sqlstore.New(db)
	if err != nil {
		return nil, fmt.Errorf("formwidgets: %w", err)
	}
	a.tables = store
	return store, nil
}

// mountStatic serves the embedded assets when the asset base URL is a local
// path; absolute URLs point at a CDN the host manages.
func (a *App) mountStatic() {
	m := a.router.Mux()
	base := strings.TrimSpace(a.cfg.Widgets.AssetBaseURL)
	if strings.HasPrefix(base, "/") && !strings.HasPrefix(base, "//") {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		m.PathPrefix(base).Methods(routes.ReadMethods()...).
			Handler(http.StripPrefix(base, http.FileServer(http.FS(vanilla.AssetsFS()))))
	}
	m.Path("/healthz").Methods(routes.ReadMethods()...).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	m.Path(formPath(a.cfg.Server.BasePath)).
		Methods(append(routes.ReadMethods(), http.MethodPost)...).
		Handler(a.formHandler())
}

func unrestrictedScope(*http.Request) (choices.Scope, error) {
	return choices.Unrestricted(), nil
}
