package formwidgets

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formwidgets/components/search"
	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/config"
	"github.com/goliatone/go-formwidgets/pkg/testsupport"
	"github.com/goliatone/go-formwidgets/pkg/widgets"
)

const recordsConfig = `
widgets:
  placeholder: Type a name
entities:
  - type: crm.company
    records:
      - {id: "1", label: Acme Corp, active: true}
      - {id: "2", label: Globex, active: true}
      - {id: "3", label: Initech, active: false}
  - type: crm.contact
    widget: autocomplete
    records:
      - {id: "7", label: Jane Doe, active: true}
      - {id: "8", label: John Roe, active: true}
`

func newApp(t *testing.T, document string) *App {
	t.Helper()

	cfg, err := config.LoadFromBytes([]byte(document))
	require.NoError(t, err)
	app, err := NewApp(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func serve(t *testing.T, app *App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewApp_BindsWidgetKinds(t *testing.T) {
	app := newApp(t, recordsConfig)

	fields := app.Fields()
	require.Len(t, fields, 2)

	company, ok := app.Field("company")
	require.True(t, ok)
	assert.Equal(t, widgets.KindSelectPicker, company.Kind)
	assert.IsType(t, &widgets.SelectWithPicker{}, company.Widget)

	contact, ok := app.Field("contact")
	require.True(t, ok)
	assert.Equal(t, widgets.KindAutocomplete, contact.Kind)
	assert.IsType(t, &widgets.Autocomplete{}, contact.Widget)

	assert.Equal(t, []string{
		"crm_company_picker",
		"crm_company_search",
		"crm_contact_picker",
		"crm_contact_search",
	}, app.Router().Names())
}

func TestApp_FormPage(t *testing.T) {
	app := newApp(t, recordsConfig)

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/?company=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	page := rec.Body.String()

	assert.Equal(t, []testsupport.Option{
		{Value: "", Label: "---------"},
		{Value: "1", Label: "Acme Corp"},
		{Value: "2", Label: "Globex"},
		{Value: "3", Label: "Initech", Selected: true},
	}, testsupport.Options(t, page))

	trigger := testsupport.FindAll(t, page, "a")
	require.Len(t, trigger, 1)
	href, _ := testsupport.Attr(trigger[0], "href")
	assert.Equal(t, "/crm/company/picker/?field=id_company", href)

	visible := testsupport.FindByID(t, page, "id_contact_typeahead")
	placeholder, _ := testsupport.Attr(visible, "placeholder")
	assert.Equal(t, "Type a name", placeholder)

	assert.Contains(t, page, `<link rel="stylesheet" href="/static/formwidgets/formwidgets.css">`)
	assert.Contains(t, page, config.DefaultJQueryURL)
	assert.Less(t, strings.Index(page, config.DefaultJQueryURL), strings.Index(page, config.DefaultTypeaheadURL))
	assert.Equal(t, 1, strings.Count(page, "/static/formwidgets/formwidgets-ready.js"))
	assert.Equal(t, 1, strings.Count(page, `<script src="/static/formwidgets/formwidgets-picker.js" defer></script>`))
}

func TestApp_PickerAndSearchEndpoints(t *testing.T) {
	app := newApp(t, recordsConfig)

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/crm/company/picker/?field=id_company", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	links := testsupport.FindAll(t, rec.Body.String(), "a")
	assert.Len(t, links, 2)

	rec = serve(t, app, httptest.NewRequest(http.MethodGet, "/crm/contact/search/?q=jane", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var payload search.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Objects, 1)
	assert.Equal(t, "7", payload.Objects[0].PK)
	assert.Equal(t, "Jane Doe{7}", payload.Objects[0].Suggestion)
}

func TestApp_PostEchoesSubmittedValues(t *testing.T) {
	app := newApp(t, recordsConfig)

	page := postForm(t, app, url.Values{
		"company":           {"2"},
		"contact":           {"8"},
		"contact_typeahead": {"John Roe"},
	})
	assert.Equal(t, map[string]string{"company": "2", "contact": "8"}, submittedValues(t, page))

	hidden := testsupport.FindByID(t, page, "id_contact")
	value, _ := testsupport.Attr(hidden, "value")
	assert.Equal(t, "8", value)
	visible := testsupport.FindByID(t, page, "id_contact_typeahead")
	label, _ := testsupport.Attr(visible, "value")
	assert.Equal(t, "John Roe", label)
}

func TestApp_PostClearedTypeaheadDropsIdentifier(t *testing.T) {
	app := newApp(t, recordsConfig)

	page := postForm(t, app, url.Values{
		"company":           {""},
		"contact":           {"8"},
		"contact_typeahead": {""},
	})
	assert.Equal(t, map[string]string{"company": "", "contact": ""}, submittedValues(t, page))
}

func postForm(t *testing.T, app *App, form url.Values) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(t, app, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func submittedValues(t *testing.T, page string) map[string]string {
	t.Helper()
	values := map[string]string{}
	for _, node := range testsupport.FindAll(t, page, "dd") {
		name, _ := testsupport.Attr(node, "data-field")
		values[name] = testsupport.Text(node)
	}
	return values
}

func TestApp_FormRejectsOtherMethodsAndPaths(t *testing.T) {
	app := newApp(t, recordsConfig)

	rec := serve(t, app, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(t, app, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_AssetsAndHealth(t *testing.T) {
	app := newApp(t, recordsConfig)

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/static/formwidgets/formwidgets.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())

	rec = serve(t, app, httptest.NewRequest(http.MethodGet, "/static/formwidgets/formwidgets-picker.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-picker-value`)
	assert.Contains(t, rec.Body.String(), `'[data-toggle="ajaxmodal"]`)

	rec = serve(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestApp_BasePath(t *testing.T) {
	app := newApp(t, "server:\n  base_path: /admin\n"+strings.TrimPrefix(recordsConfig, "\n"))

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	form := testsupport.FindAll(t, rec.Body.String(), "form")
	require.Len(t, form, 1)
	action, _ := testsupport.Attr(form[0], "action")
	assert.Equal(t, "/admin/", action)

	rec = serve(t, app, httptest.NewRequest(http.MethodGet, "/admin/crm/company/search/?q=acme", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_ThemeOverridesSelectTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes", "acme", "select.tmpl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`<select class="acme" name="{{ name }}"></select>`), 0o644))

	document := fmt.Sprintf(`
widgets:
  templates_dir: %q
theme:
  name: acme
  templates:
    widgets.select: themes/acme/select.tmpl
entities:
  - type: crm.company
    records:
      - {id: "1", label: Acme Corp, active: true}
`, dir)
	app := newApp(t, document)

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	selects := testsupport.FindAll(t, rec.Body.String(), "select")
	require.Len(t, selects, 1)
	class, _ := testsupport.Attr(selects[0], "class")
	assert.Equal(t, "acme", class)
}

func TestApp_SQLiteTableEntity(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "crm.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE companies (id INTEGER PRIMARY KEY, name TEXT NOT NULL, is_active INTEGER NOT NULL);
INSERT INTO companies (id, name, is_active) VALUES (1, 'Acme Corp', 1), (2, 'Initech', 0);
`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	app := newApp(t, fmt.Sprintf(`
database:
  dsn: %q
entities:
  - type: crm.company
    table:
      name: companies
      label_column: name
      active_column: is_active
      integer_keys: true
`, dsn))

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/?company=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []testsupport.Option{
		{Value: "", Label: "---------"},
		{Value: "1", Label: "Acme Corp"},
		{Value: "2", Label: "Initech", Selected: true},
	}, testsupport.Options(t, rec.Body.String()))
}

func TestApp_SQLiteTableSelectsZeroPaddedValue(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "crm.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`
CREATE TABLE companies (id INTEGER PRIMARY KEY, name TEXT NOT NULL, is_active INTEGER NOT NULL);
INSERT INTO companies (id, name, is_active) VALUES (1, 'Acme Corp', 1), (42, 'Umbrella', 0);
`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	app := newApp(t, fmt.Sprintf(`
database:
  dsn: %q
entities:
  - type: crm.company
    table:
      name: companies
      label_column: name
      active_column: is_active
      integer_keys: true
`, dsn))

	rec := serve(t, app, httptest.NewRequest(http.MethodGet, "/?company=042", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []testsupport.Option{
		{Value: "", Label: "---------"},
		{Value: "1", Label: "Acme Corp"},
		{Value: "42", Label: "Umbrella", Selected: true},
	}, testsupport.Options(t, rec.Body.String()))
}

func TestApp_LargeSQLiteTableUsesAutocomplete(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "crm.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE contacts (id INTEGER PRIMARY KEY, name TEXT NOT NULL, is_active INTEGER NOT NULL)`)
	require.NoError(t, err)
	for i := 1; i <= widgets.LargeSetThreshold+1; i++ {
		_, err = db.Exec(`INSERT INTO contacts (id, name, is_active) VALUES (?, ?, 1)`, i, fmt.Sprintf("Contact %03d", i))
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	app := newApp(t, fmt.Sprintf(`
database:
  dsn: %q
entities:
  - type: crm.contact
    table:
      name: contacts
      label_column: name
      active_column: is_active
      integer_keys: true
`, dsn))

	contact, ok := app.Field("contact")
	require.True(t, ok)
	assert.Equal(t, widgets.KindAutocomplete, contact.Kind)
	assert.IsType(t, &widgets.Autocomplete{}, contact.Widget)
}

func TestNewApp_UnknownWidgetKind(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(`
entities:
  - type: crm.company
    widget: carousel
`))
	require.NoError(t, err)

	_, err = NewApp(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carousel")
}

func TestNewApp_RejectsDuplicateFieldNames(t *testing.T) {
	cfg := config.Default()
	cfg.Entities = []config.EntityConfig{
		{Type: "crm.company", Records: []choices.Record{{Item: choices.Item{ID: "1", Label: "Acme Corp"}, Active: true}}},
		{Type: "billing.company", Records: []choices.Record{{Item: choices.Item{ID: "9", Label: "Globex"}, Active: true}}},
	}

	_, err := NewApp(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "company" is already bound to crm.company`)
}

func TestNewApp_DefaultConfig(t *testing.T) {
	app, err := NewApp(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, app.Fields())
	assert.NoError(t, app.Close())
}
